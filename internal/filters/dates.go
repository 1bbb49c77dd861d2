package filters

import (
	"fmt"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// Date patterns used by the site's templates.
const (
	ReadableDatePattern = "%d %b %Y" // 04 May 2023
	PostDatePattern     = "%m-%d-%Y" // 05-04-2023
)

var inputLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// FormatDate renders a date in UTC using a strftime pattern.
func FormatDate(date any, pattern string) (string, error) {
	t, err := toTime(date)
	if err != nil {
		return "", err
	}
	return strftime.Format(pattern, t.UTC()), nil
}

// ReadableDate renders "dd Mon yyyy".
func ReadableDate(date any) (string, error) { return FormatDate(date, ReadableDatePattern) }

// PostDateString renders "mm-dd-yyyy".
func PostDateString(date any) (string, error) { return FormatDate(date, PostDatePattern) }

// HTMLDateString renders the date used in <time datetime> attributes.
func HTMLDateString(date any) (string, error) { return FormatDate(date, PostDatePattern) }

// DateToRFC3339 renders a date for Atom feeds.
func DateToRFC3339(date any) (string, error) {
	t, err := toTime(date)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

// DateToRFC822 renders a date for RSS feeds.
func DateToRFC822(date any) (string, error) {
	t, err := toTime(date)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC1123Z), nil
}

func toTime(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("nil date")
		}
		return *d, nil
	case string:
		for _, layout := range inputLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(d)); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", d)
	case int64:
		return time.UnixMilli(d), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
	}
}
