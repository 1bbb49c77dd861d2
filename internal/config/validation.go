package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// Validate checks a configuration after defaults have been applied.
func Validate(c *Config) error {
	for _, f := range c.TemplateFormats {
		if !slices.Contains(content.DefaultFormats, content.Format(f)) {
			return invalid("template_formats", fmt.Sprintf("unsupported template format %q", f))
		}
	}
	if filepath.Clean(c.Dir.Output) == filepath.Clean(c.Dir.Input) {
		return invalid("dir.output", "output directory must differ from the input directory")
	}
	for name, target := range c.LayoutAliases {
		if name == "" || target == "" {
			return invalid("layout_aliases", "layout alias name and target must be non-empty")
		}
	}
	for i, m := range c.Passthrough {
		if m.From == "" || m.To == "" {
			return invalid(fmt.Sprintf("passthrough[%d]", i), "passthrough mapping needs from and to")
		}
		if filepath.IsAbs(m.From) || filepath.IsAbs(m.To) {
			return invalid(fmt.Sprintf("passthrough[%d]", i), "passthrough paths must be relative")
		}
	}
	u, err := url.Parse(c.Site.URL)
	if err != nil || !u.IsAbs() {
		return invalid("site.url", fmt.Sprintf("site url %q must be absolute", c.Site.URL))
	}
	if c.Preview.Port < 1 || c.Preview.Port > 65535 {
		return invalid("preview.port", fmt.Sprintf("port %d out of range", c.Preview.Port))
	}
	return nil
}

func invalid(field, msg string) error {
	return errors.ValidationError(msg).WithContext("field", field).Build()
}
