package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyLayout     = "layout"
	KeyFilter     = "filter"
	KeyShortcode  = "shortcode"
	KeyTag        = "tag"
	KeyCount      = "count"
	KeyEnv        = "environment"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr        { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func Duration(d time.Duration) slog.Attr { return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr          { return slog.String(KeyOutput, p) }
func Layout(l string) slog.Attr          { return slog.String(KeyLayout, l) }
func Filter(name string) slog.Attr       { return slog.String(KeyFilter, name) }
func Shortcode(name string) slog.Attr    { return slog.String(KeyShortcode, name) }
func Tag(t string) slog.Attr             { return slog.String(KeyTag, t) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Environment(e string) slog.Attr     { return slog.String(KeyEnv, e) }
func Method(m string) slog.Attr          { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr          { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr      { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
