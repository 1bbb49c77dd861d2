package shortcodes

import (
	"html/template"
	"io/fs"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// DefaultIconDir is where the bootstrap-icons package installs its SVGs.
const DefaultIconDir = "node_modules/bootstrap-icons/icons"

// Icons inlines SVG icons from a directory.
type Icons struct {
	fsys fs.FS
}

// NewIcons reads icons from fsys, typically os.DirFS(iconDir).
func NewIcons(fsys fs.FS) *Icons {
	return &Icons{fsys: fsys}
}

// Icon returns the raw SVG markup for name. A missing or unreadable icon is
// an error and halts the build.
func (i *Icons) Icon(name string) (template.HTML, error) {
	name = strings.TrimSpace(name)
	file := name + ".svg"
	if name == "" || !fs.ValidPath(file) || path.Base(file) != file {
		return "", errors.ValidationError("invalid icon name").WithContext("icon", name).Build()
	}
	data, err := fs.ReadFile(i.fsys, file)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryAsset, "read icon").Fatal().WithContext("icon", name).Build()
	}
	// #nosec G203 -- icons come from the local icon package
	return template.HTML(data), nil
}
