// Package preview serves a built site locally and rebuilds it when the
// sources change.
package preview

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Handler serves files from OutputDir. Requests that do not resolve to a
// file get the not-found document with status 404.
type Handler struct {
	OutputDir string
	// NotFound is relative to OutputDir. It is read on every miss so a
	// rebuild takes effect without a restart.
	NotFound string
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Router builds the chi router.
func (h *Handler) Router() http.Handler {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(chain(logger, errors.NewHTTPErrorAdapter(logger)))
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}
	r.Get("/*", h.serveSite)
	r.Head("/*", h.serveSite)
	r.NotFound(h.serveNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return r
}

func (h *Handler) serveSite(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	file := filepath.Join(h.OutputDir, filepath.FromSlash(strings.TrimPrefix(name, "/")))

	info, err := os.Stat(file)
	if err == nil && info.IsDir() {
		file = filepath.Join(file, "index.html")
		info, err = os.Stat(file)
	}
	if err != nil || !info.Mode().IsRegular() {
		h.serveNotFound(w, r)
		return
	}

	// #nosec G304 -- path is cleaned and rooted at the output dir
	f, err := os.Open(file)
	if err != nil {
		h.serveNotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// serveNotFound answers with the not-found document without redirecting.
// If it is missing the response is a plain 404.
func (h *Handler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	// #nosec G304 -- configured not-found document inside the output dir
	body, err := os.ReadFile(filepath.Join(h.OutputDir, filepath.FromSlash(h.NotFound)))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("Not-found document unavailable", logfields.Path(h.NotFound), logfields.Error(err))
		}
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
