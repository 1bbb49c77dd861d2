package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/preview"
)

// ServeCmd builds the site, serves it and rebuilds when sources change.
type ServeCmd struct {
	Port    int    `short:"p" help:"Port (overrides preview.port)"`
	Host    string `default:"localhost" help:"Interface to listen on"`
	NoWatch bool   `name:"no-watch" help:"Serve without rebuilding on change"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Preview.Port = s.Port
	}

	promReg := prom.NewRegistry()
	builder, err := newBuilder(cfg, g.Logger, metrics.NewPrometheusRecorder(promReg))
	if err != nil {
		return err
	}
	// A broken initial build still serves whatever is on disk.
	if _, err := builder.Build(ctx); err != nil {
		g.Logger.Warn("Initial build failed", logfields.Error(err))
	}

	server := &preview.Server{
		Addr: fmt.Sprintf("%s:%d", s.Host, cfg.Preview.Port),
		Handler: &preview.Handler{
			OutputDir: cfg.Dir.Output,
			NotFound:  cfg.Preview.NotFound,
			Metrics:   metrics.HTTPHandler(promReg),
			Logger:    g.Logger,
		},
		Logger: g.Logger,
	}
	if !s.NoWatch {
		output, err := filepath.Abs(cfg.Dir.Output)
		if err != nil {
			return err
		}
		server.Watcher = &preview.Watcher{
			Root:   cfg.Dir.Input,
			Ignore: []string{output},
			Rebuild: func(ctx context.Context) error {
				_, err := builder.Build(ctx)
				return err
			},
			Logger: g.Logger,
		}
	}
	return server.Run(ctx)
}
