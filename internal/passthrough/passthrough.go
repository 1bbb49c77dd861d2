// Package passthrough copies static files verbatim from the source tree into
// the build output.
package passthrough

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Mapping copies From (relative to the input dir) to To (relative to the
// output dir). From may be a file or a directory.
type Mapping struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Copier performs passthrough copies for one build.
type Copier struct {
	InputDir  string
	OutputDir string
	Logger    *slog.Logger
}

// Copy applies every mapping and returns the number of files written.
// Mappings whose source does not exist are skipped with a warning.
func (c *Copier) Copy(ctx context.Context, mappings []Mapping) (int, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	total := 0
	for _, m := range mappings {
		src := filepath.Join(c.InputDir, filepath.FromSlash(m.From))
		dst := filepath.Join(c.OutputDir, filepath.FromSlash(m.To))

		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			logger.WarnContext(ctx, "Passthrough source missing; skipping", logfields.Path(m.From))
			continue
		}
		if err != nil {
			return total, copyErr(err, m.From)
		}

		var n int
		if info.IsDir() {
			n, err = copyDir(ctx, src, dst)
		} else {
			err = copyFile(src, dst, info.Mode())
			n = 1
		}
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			return total, copyErr(err, m.From)
		}
		total += n
		logger.DebugContext(ctx, "Passthrough copied", logfields.Path(m.From), logfields.Output(m.To), logfields.Count(n))
	}
	return total, nil
}

func copyErr(err error, from string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, "passthrough copy").Fatal().WithContext("path", from).Build()
}

// copyDir recursively copies a directory tree.
func copyDir(ctx context.Context, src, dst string) (int, error) {
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if err := copyFile(p, target, info.Mode()); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// copyFile replaces dst atomically with the contents of src.
func copyFile(src, dst string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	// #nosec G304 -- passthrough sources are configured by the site owner
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := atomic.WriteFile(dst, in); err != nil {
		return err
	}
	return os.Chmod(dst, mode.Perm())
}
