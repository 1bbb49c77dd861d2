// Package config loads site.yaml, the settings file for building and
// previewing the blog.
package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
	"git.home.luguber.info/inful/blogkit/internal/passthrough"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "site.yaml"

// Config represents the application configuration.
type Config struct {
	Environment     string                `yaml:"environment"`
	Dir             DirConfig             `yaml:"dir"`
	TemplateFormats []string              `yaml:"template_formats"`
	IncludeDrafts   bool                  `yaml:"include_drafts"`
	LayoutAliases   map[string]string     `yaml:"layout_aliases,omitempty"`
	Passthrough     []passthrough.Mapping `yaml:"passthrough,omitempty"` // added to the built-in copies
	IconsDir        string                `yaml:"icons_dir"`
	Site            SiteConfig            `yaml:"site"`
	Markdown        MarkdownConfig        `yaml:"markdown"`
	Preview         PreviewConfig         `yaml:"preview"`
	Logging         LoggingConfig         `yaml:"logging"`
}

// DirConfig holds the directory layout, relative to the working directory.
type DirConfig struct {
	Input    string `yaml:"input"`
	Includes string `yaml:"includes"` // relative to Input
	Data     string `yaml:"data"`     // relative to Input
	Output   string `yaml:"output"`
}

// SiteConfig is exposed to templates as .Site.
type SiteConfig struct {
	Title       string         `yaml:"title"`
	URL         string         `yaml:"url"`
	Description string         `yaml:"description,omitempty"`
	Author      string         `yaml:"author,omitempty"`
	Language    string         `yaml:"language,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
}

// MarkdownConfig overrides the markdown renderer defaults. Unset fields
// keep the default.
type MarkdownConfig struct {
	HTML            *bool  `yaml:"html,omitempty"`
	Breaks          *bool  `yaml:"breaks,omitempty"`
	Linkify         *bool  `yaml:"linkify,omitempty"`
	Anchors         *bool  `yaml:"anchors,omitempty"`
	PermalinkClass  string `yaml:"permalink_class,omitempty"`
	PermalinkSymbol string `yaml:"permalink_symbol,omitempty"`
	HighlightStyle  string `yaml:"highlight_style,omitempty"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Port     int    `yaml:"port"`
	NotFound string `yaml:"not_found"` // relative to the output dir
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads path, expanding ${VAR} references from the environment after
// loading .env files. A missing file yields the defaults. ENVIRONMENT, when
// set, overrides the file's environment.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.ConfigError(fmt.Sprintf("read config %s", path)).WithCause(err).Build()
	default:
		expanded := expandEnv(data)
		if len(bytes.TrimSpace(expanded)) == 0 {
			break
		}
		dec := yaml.NewDecoder(bytes.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("parse config %s", path)).WithCause(err).Build()
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MarkdownOptions overlays the configured overrides on markdown.DefaultOptions.
func (c *Config) MarkdownOptions() markdown.Options {
	o := markdown.DefaultOptions()
	m := c.Markdown
	if m.HTML != nil {
		o.HTML = *m.HTML
	}
	if m.Breaks != nil {
		o.Breaks = *m.Breaks
	}
	if m.Linkify != nil {
		o.Linkify = *m.Linkify
	}
	if m.Anchors != nil {
		o.Anchors = *m.Anchors
	}
	if m.PermalinkClass != "" {
		o.PermalinkClass = m.PermalinkClass
	}
	if m.PermalinkSymbol != "" {
		o.PermalinkSymbol = m.PermalinkSymbol
	}
	if m.HighlightStyle != "" {
		o.HighlightStyle = m.HighlightStyle
	}
	return o
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references with the variable's value. Unset
// variables expand to "". Any other "$" is left alone.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}
