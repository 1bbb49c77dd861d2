package shortcodes

import (
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// Year returns a dateYear shortcode bound to now, in local time.
func Year(now func() time.Time) func() string {
	if now == nil {
		now = time.Now
	}
	return func() string {
		return strftime.Format("%Y", now().Local())
	}
}
