package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Loader discovers and parses content items under an input directory.
type Loader struct {
	InputDir string
	Formats  []Format
	// Skip holds slash-separated directories, relative to InputDir, that are
	// never treated as content (includes, data, output).
	Skip []string
	// IncludeDrafts keeps items with `draft: true`.
	IncludeDrafts bool
	Logger        *slog.Logger
}

// Load walks InputDir and returns every content item, sorted by date then path.
func (l *Loader) Load(ctx context.Context) ([]*Item, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	formats := l.Formats
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	byExt := make(map[string]Format, len(formats))
	for _, f := range formats {
		byExt["."+string(f)] = f
	}
	skip := make(map[string]bool, len(l.Skip))
	for _, s := range l.Skip {
		s = strings.Trim(path.Clean(filepath.ToSlash(s)), "/")
		if s != "" && s != "." {
			skip[s] = true
		}
	}

	var items []*Item
	err := filepath.WalkDir(l.InputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(l.InputDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "node_modules" || skip[rel] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		format, ok := byExt[filepath.Ext(name)]
		if !ok {
			return nil
		}

		item, err := l.loadFile(p, rel, format)
		if err != nil {
			return err
		}
		if item.Draft && !l.IncludeDrafts {
			logger.Debug("Skipping draft", logfields.Path(rel))
			return nil
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.HasCategory(err, errors.CategoryContent) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk input directory").
			Fatal().
			WithContext("path", l.InputDir).
			Build()
	}

	sortItems(items)
	logger.Debug("Content loaded", logfields.Count(len(items)), logfields.Path(l.InputDir))
	return items, nil
}

func (l *Loader) loadFile(abs, rel string, format Format) (*Item, error) {
	// #nosec G304 -- path comes from walking the configured input dir
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "read content file").Fatal().WithContext("path", rel).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "stat content file").Fatal().WithContext("path", rel).Build()
	}
	item, err := Parse(rel, format, src, info.ModTime())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "parse content file").Fatal().WithContext("path", rel).Build()
	}
	item.SourcePath = abs
	return item, nil
}
