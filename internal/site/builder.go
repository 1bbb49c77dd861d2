package site

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/passthrough"
)

// Keys every page sees in its template data, next to its own frontmatter.
const (
	keyPage        = "Page"
	keyTitle       = "Title"
	keyContent     = "Content"
	keySite        = "Site"
	keyData        = "Data"
	keyCollections = "Collections"
	keyEnvironment = "Environment"
)

// Report summarises one build.
type Report struct {
	BuildID     string
	Pages       int // files written
	Skipped     int // items with `permalink: false`
	Passthrough int
	Bytes       int64
	Duration    time.Duration
	Outcome     metrics.BuildOutcome
}

// Builder renders the site described by a config through a Registry.
type Builder struct {
	cfg      *config.Config
	reg      *Registry
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// WithRecorder sets the metrics recorder; metrics.NoopRecorder otherwise.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// NewBuilder creates a builder.
func NewBuilder(cfg *config.Config, reg *Registry, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, reg: reg, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build renders every item and performs passthrough copies. The first error
// stops the build. The report is returned even on failure.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	logger.InfoContext(ctx, "Build started", logfields.Environment(b.cfg.Environment), logfields.Path(b.cfg.Dir.Input))

	err := b.build(ctx, logger, report)

	report.Duration = time.Since(start)
	report.Outcome = outcomeOf(err)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(report.Outcome)
	if err != nil {
		logger.ErrorContext(ctx, "Build failed", logfields.Duration(report.Duration), logfields.Error(err))
		return report, err
	}
	b.recorder.AddPagesWritten(report.Pages)
	b.recorder.AddPassthroughFiles(report.Passthrough)
	logger.InfoContext(ctx, "Build complete",
		logfields.Count(report.Pages),
		slog.Int("skipped", report.Skipped),
		slog.Int("passthrough", report.Passthrough),
		slog.String("size", humanize.Bytes(uint64(report.Bytes))),
		logfields.Duration(report.Duration))
	return report, nil
}

func outcomeOf(err error) metrics.BuildOutcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

func (b *Builder) build(ctx context.Context, logger *slog.Logger, report *Report) error {
	cfg := b.cfg
	inputDir := cfg.Dir.Input
	includesDir := filepath.Join(inputDir, filepath.FromSlash(cfg.Dir.Includes))
	dataDir := filepath.Join(inputDir, filepath.FromSlash(cfg.Dir.Data))
	outputDir := cfg.Dir.Output
	formats := make([]content.Format, 0, len(cfg.TemplateFormats))
	for _, f := range cfg.TemplateFormats {
		formats = append(formats, content.Format(f))
	}

	data, err := LoadData(ctx, dataDir)
	if err != nil {
		return err
	}

	skip := []string{cfg.Dir.Includes, cfg.Dir.Data}
	if rel, err := filepath.Rel(inputDir, outputDir); err == nil && !strings.HasPrefix(rel, "..") {
		skip = append(skip, filepath.ToSlash(rel))
	}
	loader := &content.Loader{
		InputDir:      inputDir,
		Formats:       formats,
		Skip:          skip,
		IncludeDrafts: cfg.IncludeDrafts,
		Logger:        logger,
	}
	items, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	targets := b.reg.LayoutTargets()
	items = slices.DeleteFunc(items, func(it *content.Item) bool {
		return slices.Contains(targets, it.InputPath)
	})
	if err := assignRoutes(items, outputDir); err != nil {
		return err
	}

	collections := b.reg.Collections(content.NewCollection(items))
	eng, err := newEngine(ctx, b.reg, inputDir, includesDir, formats)
	if err != nil {
		return err
	}

	// Collected items render first so feeds and listings excluded from
	// collections can read their .Content.
	ordered := make([]*content.Item, 0, len(items))
	var excluded []*content.Item
	for _, it := range items {
		if it.ExcludeFromCollections {
			excluded = append(excluded, it)
			continue
		}
		ordered = append(ordered, it)
	}
	ordered = append(ordered, excluded...)

	pageData := make(map[*content.Item]map[string]any, len(ordered))
	for _, it := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := b.pageData(it, data, collections)
		pageData[it] = d
		if err := eng.renderContent(it, d); err != nil {
			return err
		}
	}

	for _, it := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		html, err := eng.applyLayouts(it, pageData[it])
		if err != nil {
			return err
		}
		if it.SkipWrite {
			report.Skipped++
			continue
		}
		if err := writeOutput(it.OutputPath, html); err != nil {
			return err
		}
		report.Pages++
		report.Bytes += int64(len(html))
		logger.DebugContext(ctx, "Page written", logfields.Path(it.InputPath), logfields.Output(it.OutputPath), logfields.Layout(it.Layout))
	}

	copier := &passthrough.Copier{InputDir: inputDir, OutputDir: outputDir, Logger: logger}
	mappings := append(b.reg.Passthrough(), cfg.Passthrough...)
	n, err := copier.Copy(ctx, mappings)
	report.Passthrough = n
	return err
}

// assignRoutes sets URL and OutputPath. Two written items may not share an
// output file.
func assignRoutes(items []*content.Item, outputDir string) error {
	owners := make(map[string]string, len(items))
	for _, it := range items {
		url, out, err := Route(it)
		if err != nil {
			return err
		}
		it.URL = url
		it.OutputPath = filepath.Join(outputDir, filepath.FromSlash(out))
		if it.SkipWrite {
			continue
		}
		if prev, dup := owners[out]; dup {
			return errors.BuildError(fmt.Sprintf("%s and %s both write %s", prev, it.InputPath, out)).
				WithContext("path", it.InputPath).
				Build()
		}
		owners[out] = it.InputPath
	}
	return nil
}

func (b *Builder) pageData(it *content.Item, data map[string]any, collections map[string]any) map[string]any {
	d := maps.Clone(it.Data)
	if d == nil {
		d = make(map[string]any)
	}
	d[keyPage] = it
	d[keyTitle] = it.Title
	d[keySite] = b.cfg.Site
	d[keyData] = data
	d[keyCollections] = collections
	d[keyEnvironment] = b.cfg.Environment
	return d
}

func writeOutput(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.FileSystemError("create output dir").WithCause(err).WithContext("path", path).Build()
	}
	if err := atomic.WriteFile(path, strings.NewReader(html)); err != nil {
		return errors.FileSystemError("write page").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
