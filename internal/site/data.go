package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

var dataExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// LoadData reads every top-level *.yaml, *.yml and *.json file in dir into
// a map keyed by base name. JSON is decoded by the YAML parser, which
// accepts it. A missing dir yields an empty map.
func LoadData(ctx context.Context, dir string) (map[string]any, error) {
	out := make(map[string]any)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read data dir").Fatal().WithContext("path", dir).Build()
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !dataExts[ext] || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		key := strings.TrimSuffix(e.Name(), ext)
		if _, dup := out[key]; dup {
			return nil, errors.ContentError(fmt.Sprintf("data key %q defined by more than one file", key)).WithContext("path", e.Name()).Build()
		}
		p := filepath.Join(dir, e.Name())
		// #nosec G304 -- files under the configured data dir
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "read data file").Fatal().WithContext("path", p).Build()
		}
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, errors.WrapError(err, errors.CategoryContent, "parse data file").Fatal().WithContext("path", p).Build()
		}
		out[key] = v
	}
	return out, nil
}
