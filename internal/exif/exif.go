// Package exif extracts the photo metadata shown under gallery images.
package exif

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Placeholder is shown for any field the image does not carry.
const Placeholder = "--"

// Photo is the fixed set of fields templates render for an image.
type Photo struct {
	Camera       string
	ShutterSpeed string
	// FStop is the raw aperture fraction, e.g. "28/10"; see filters.FormatFStop.
	FStop       string
	ISO         string
	Flash       string
	FocalLength string
	Lens        string
}

// Empty returns a Photo with every field set to Placeholder.
func Empty() Photo {
	return Photo{
		Camera:       Placeholder,
		ShutterSpeed: Placeholder,
		FStop:        Placeholder,
		ISO:          Placeholder,
		Flash:        Placeholder,
		FocalLength:  Placeholder,
		Lens:         Placeholder,
	}
}

// Reader loads EXIF data from image files.
type Reader struct {
	// Root resolves relative image paths; empty means the working directory.
	Root   string
	Logger *slog.Logger
}

// Load reads the metadata of the image at path. Failing to open or read
// the file is an error; a readable image without EXIF yields Empty().
func (r *Reader) Load(ctx context.Context, path string) (Photo, error) {
	if err := ctx.Err(); err != nil {
		return Photo{}, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	full := resolve(r.Root, path)

	// #nosec G304 -- image paths come from site templates
	f, err := os.Open(full)
	if err != nil {
		return Photo{}, errors.WrapError(err, errors.CategoryAsset, "open image").Fatal().WithContext("path", path).Build()
	}
	defer func() { _ = f.Close() }()

	x, err := goexif.Decode(f)
	if err != nil {
		logger.DebugContext(ctx, "No EXIF data in image", logfields.Path(path), logfields.Error(err))
		return Empty(), nil
	}
	return fromLookup(x.Get), nil
}

type lookupFunc func(goexif.FieldName) (*tiff.Tag, error)

func fromLookup(get lookupFunc) Photo {
	p := Empty()
	if tag, err := get(goexif.Model); err == nil {
		p.Camera = orPlaceholder(tagString(tag))
	}
	if tag, err := get(goexif.ExposureTime); err == nil {
		p.ShutterSpeed = orPlaceholder(tagRational(tag))
	}
	if tag, err := get(goexif.FNumber); err == nil {
		p.FStop = orPlaceholder(tagRational(tag))
	}
	if tag, err := get(goexif.ISOSpeedRatings); err == nil {
		if v, err := tag.Int(0); err == nil && v > 0 {
			p.ISO = strconv.Itoa(v)
		}
	}
	if tag, err := get(goexif.Flash); err == nil {
		if v, err := tag.Int(0); err == nil {
			p.Flash = strconv.FormatBool(v&1 == 1)
		}
	}
	if tag, err := get(goexif.FocalLength); err == nil {
		p.FocalLength = orPlaceholder(tagRational(tag))
	}
	if tag, err := get(goexif.LensModel); err == nil {
		p.Lens = orPlaceholder(tagString(tag))
	}
	return p
}

func tagString(tag *tiff.Tag) string {
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return trimNul(s)
}

func tagRational(tag *tiff.Tag) string {
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", num, den)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
