package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/passthrough"
)

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Default()
	example.Site = SiteConfig{
		Title:       "My Photo Blog",
		URL:         "https://example.com/",
		Description: "Travel, food and photography",
		Author:      "${SITE_AUTHOR}",
		Language:    DefaultLanguage,
	}
	example.Passthrough = []passthrough.Mapping{{From: "source/favicon.ico", To: "favicon.ico"}}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.InternalError("marshal example config").WithCause(err).Build()
	}
	// #nosec G306 -- config file is meant to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError(fmt.Sprintf("write config %s", path)).WithCause(err).Build()
	}
	return nil
}
