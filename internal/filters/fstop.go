package filters

import (
	"math"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/exif"
)

// FormatFStop turns an EXIF aperture fraction ("28/10") into "f/2.8",
// rounded to two decimals. Anything that does not evaluate to a finite
// number yields the placeholder.
func FormatFStop(fraction string) string {
	num, den, ok := strings.Cut(fraction, "/")
	if !ok || strings.Contains(den, "/") {
		return exif.Placeholder
	}
	a, errA := strconv.ParseFloat(strings.TrimSpace(num), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if errA != nil || errB != nil {
		return exif.Placeholder
	}
	v := math.Round(a/b*100) / 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return exif.Placeholder
	}
	return "f/" + strconv.FormatFloat(v, 'f', -1, 64)
}
