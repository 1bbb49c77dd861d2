package filters

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

const (
	mediaCSS = "text/css"
	mediaJS  = "application/javascript"

	// EnvProduction enables JS minification.
	EnvProduction = "production"
)

var specialComment = regexp.MustCompile(`(?s)/\*!.*?\*/`)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFunc(mediaJS, js.Minify)
	return m
}

// MinifyCSS minifies a stylesheet and drops /*! special comments.
func MinifyCSS(code string) (string, error) {
	out, err := newMinifier().String(mediaCSS, code)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryAsset, "minify css").Fatal().Build()
	}
	return strings.TrimSpace(specialComment.ReplaceAllString(out, "")), nil
}

// JSMinifier minifies scripts in production and passes them through
// otherwise. Minifier failures never fail the build.
type JSMinifier struct {
	environment string
	logger      *slog.Logger
	recorder    metrics.Recorder
	m           *minify.M
}

// NewJSMinifier creates a minifier for the given environment name.
func NewJSMinifier(environment string, logger *slog.Logger, recorder metrics.Recorder) *JSMinifier {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &JSMinifier{environment: environment, logger: logger, recorder: recorder, m: newMinifier()}
}

// Enabled reports whether scripts are minified.
func (j *JSMinifier) Enabled() bool { return j.environment == EnvProduction }

// Minify returns the minified script in production and code unchanged
// otherwise. On a minifier error the error is logged and code is returned.
// The only error returned is ctx's.
func (j *JSMinifier) Minify(ctx context.Context, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !j.Enabled() {
		return code, nil
	}
	out, err := j.m.String(mediaJS, code)
	if err != nil {
		j.logger.ErrorContext(ctx, "JS minification failed; using original source", logfields.Filter("jsmin"), logfields.Error(err))
		j.recorder.IncJSMinFallback()
		return code, nil
	}
	return out, nil
}
