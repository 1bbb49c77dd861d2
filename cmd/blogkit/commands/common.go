package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Global is shared by all commands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site into the output directory"`
	Serve ServeCmd `cmd:"" help:"Build, serve locally and rebuild on change"`
	Init  InitCmd  `cmd:"" help:"Write an example site.yaml"`
}

// AfterApply runs after flag parsing and installs a logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration and reconfigures logging from it.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	g.Logger.Debug("Configuration loaded", logfields.Path(c.Config), logfields.Environment(cfg.Environment))
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	level := config.NormalizeLogLevel(lc.Level).Slog()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(lc.Format) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newBuilder wires the registry and builder for cfg.
func newBuilder(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*site.Builder, error) {
	reg := site.NewRegistry()
	if err := siteconfig.Register(reg, siteconfig.Deps{Config: cfg, Logger: logger, Recorder: recorder}); err != nil {
		return nil, err
	}
	return site.NewBuilder(cfg, reg, site.WithLogger(logger), site.WithRecorder(recorder)), nil
}
