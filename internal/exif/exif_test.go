package exif

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

const (
	typeASCII    uint16 = 2
	typeShort    uint16 = 3
	typeRational uint16 = 5
)

// decodeTag builds a single little-endian IFD entry and decodes it.
func decodeTag(t *testing.T, typ uint16, count uint32, val []byte) *tiff.Tag {
	t.Helper()
	order := binary.LittleEndian
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, order, uint16(1)))
	require.NoError(t, binary.Write(&buf, order, typ))
	require.NoError(t, binary.Write(&buf, order, count))
	if len(val) > 4 {
		require.NoError(t, binary.Write(&buf, order, uint32(12)))
		buf.Write(val)
	} else {
		inline := make([]byte, 4)
		copy(inline, val)
		buf.Write(inline)
	}
	tag, err := tiff.DecodeTag(bytes.NewReader(buf.Bytes()), order)
	require.NoError(t, err)
	return tag
}

func asciiTag(t *testing.T, s string) *tiff.Tag {
	b := append([]byte(s), 0)
	return decodeTag(t, typeASCII, uint32(len(b)), b)
}

func rationalTag(t *testing.T, num, den uint32) *tiff.Tag {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[:4], num)
	binary.LittleEndian.PutUint32(b[4:], den)
	return decodeTag(t, typeRational, 1, b)
}

func shortTag(t *testing.T, v uint16) *tiff.Tag {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return decodeTag(t, typeShort, 1, b)
}

func lookup(tags map[goexif.FieldName]*tiff.Tag) lookupFunc {
	return func(name goexif.FieldName) (*tiff.Tag, error) {
		if tag, ok := tags[name]; ok {
			return tag, nil
		}
		return nil, errors.New("tag not present")
	}
}

func TestFromLookup_AllFields(t *testing.T) {
	p := fromLookup(lookup(map[goexif.FieldName]*tiff.Tag{
		goexif.Model:           asciiTag(t, "Canon EOS 350D"),
		goexif.ExposureTime:    rationalTag(t, 1, 60),
		goexif.FNumber:         rationalTag(t, 28, 10),
		goexif.ISOSpeedRatings: shortTag(t, 400),
		goexif.Flash:           shortTag(t, 0x19),
		goexif.FocalLength:     rationalTag(t, 50, 1),
		goexif.LensModel:       asciiTag(t, "EF50mm f/1.8 II"),
	}))

	assert.Equal(t, Photo{
		Camera:       "Canon EOS 350D",
		ShutterSpeed: "1/60",
		FStop:        "28/10",
		ISO:          "400",
		Flash:        "true",
		FocalLength:  "50/1",
		Lens:         "EF50mm f/1.8 II",
	}, p)
}

func TestFromLookup_MissingFieldsArePlaceholders(t *testing.T) {
	p := fromLookup(lookup(map[goexif.FieldName]*tiff.Tag{
		goexif.Flash: shortTag(t, 0x10),
		goexif.FNumber: rationalTag(t, 0, 0),
	}))

	want := Empty()
	want.Flash = "false"
	assert.Equal(t, want, p)
}

func TestReader_NoExifYieldsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "plain.jpg"), buf.Bytes(), 0o600))

	r := &Reader{Root: dir}
	for _, p := range []string{"images/plain.jpg", "/images/plain.jpg"} {
		photo, err := r.Load(context.Background(), p)
		require.NoError(t, err, p)
		assert.Equal(t, Empty(), photo)
	}
}

func TestReader_MissingFilePropagates(t *testing.T) {
	r := &Reader{Root: t.TempDir()}
	_, err := r.Load(context.Background(), "images/nope.jpg")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAsset))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Reader{}).Load(ctx, "x.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}
