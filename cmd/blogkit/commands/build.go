package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides dir.output)"`
	Env    string `name:"env" help:"Environment name (overrides environment and ENVIRONMENT)"`
	Drafts bool   `help:"Include draft content"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Dir.Output = b.Output
	}
	if b.Env != "" {
		cfg.Environment = b.Env
	}
	cfg.IncludeDrafts = cfg.IncludeDrafts || b.Drafts

	builder, err := newBuilder(cfg, g.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	report, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d pages (%s) and copied %d files to %s in %s\n",
		report.Pages, humanize.Bytes(uint64(report.Bytes)), report.Passthrough, cfg.Dir.Output, report.Duration.Round(1e6))
	return nil
}
