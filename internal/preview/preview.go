package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

const shutdownTimeout = 5 * time.Second

// Server runs the preview HTTP server and, when Watcher is set, the
// rebuild loop.
type Server struct {
	Addr string
	// Listener overrides Addr when set.
	Listener net.Listener
	Handler  *Handler
	Watcher  *Watcher
	Logger   *slog.Logger
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ln := s.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.Addr)
		if err != nil {
			return errors.RuntimeError("listen " + s.Addr).WithCause(err).Build()
		}
	}

	srv := &http.Server{
		Handler:           s.Handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	logger.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()+"/"))

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	var wg sync.WaitGroup
	if s.Watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Watcher.Run(watchCtx); err != nil {
				logger.Warn("File watching stopped", "error", err)
			}
		}()
	}
	defer wg.Wait()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.RuntimeError("shutdown preview server").WithCause(err).Build()
		}
		return nil
	case err := <-serveErr:
		stopWatch()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.RuntimeError("preview server").WithCause(err).Build()
	}
}
