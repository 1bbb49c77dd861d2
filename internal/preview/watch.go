package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc rebuilds the site.
type RebuildFunc func(ctx context.Context) error

// Watcher triggers a rebuild when files under Root change. Bursts of
// events collapse into one rebuild; a change during a rebuild schedules
// exactly one more.
type Watcher struct {
	Root string
	// Ignore holds directories (absolute or relative to Root) whose events
	// are dropped, typically the output dir.
	Ignore   []string
	Debounce time.Duration
	Rebuild  RebuildFunc
	Logger   *slog.Logger
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ignore := w.ignoreSet()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.RuntimeError("create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fw.Close() }()
	w.addDirs(fw, w.Root, ignore, logger)

	requests := make(chan struct{}, 1)
	trigger := debouncer(debounce, requests)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, requests, logger)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignoredEvent(ev.Name) || underAny(ev.Name, ignore) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					w.addDirs(fw, ev.Name, ignore, logger)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// debouncer returns a trigger that sends on out once no further trigger
// arrived for d.
func debouncer(d time.Duration, out chan<- struct{}) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
}

// worker runs one rebuild at a time. requests has capacity one, so a
// request arriving mid-rebuild is held and coalesced with later ones.
func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			logger.Info("Change detected; rebuilding site")
			if err := w.Rebuild(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) ignoreSet() []string {
	var out []string
	for _, p := range w.Ignore {
		if !filepath.IsAbs(p) {
			p = filepath.Join(w.Root, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

func (w *Watcher) addDirs(fw *fsnotify.Watcher, root string, ignore []string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if underAny(p, ignore) {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

func underAny(p string, dirs []string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignoredEvent drops hidden files and editor temp files.
func ignoredEvent(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
