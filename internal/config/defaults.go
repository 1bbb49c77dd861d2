package config

import "git.home.luguber.info/inful/blogkit/internal/content"

// Defaults mirror the blog's historical layout.
const (
	DefaultEnvironment = "development"
	DefaultInputDir    = "."
	DefaultIncludesDir = "source/_includes"
	DefaultDataDir     = "source/_data"
	DefaultOutputDir   = "_site"
	DefaultIconsDir    = "node_modules/bootstrap-icons/icons"
	DefaultPreviewPort = 8080
	DefaultNotFound    = "404.html"
	DefaultSiteTitle   = "Blog"
	DefaultSiteURL     = "http://localhost:8080/"
	DefaultLanguage    = "en"
)

func applyDefaults(c *Config) {
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.Dir.Input == "" {
		c.Dir.Input = DefaultInputDir
	}
	if c.Dir.Includes == "" {
		c.Dir.Includes = DefaultIncludesDir
	}
	if c.Dir.Data == "" {
		c.Dir.Data = DefaultDataDir
	}
	if c.Dir.Output == "" {
		c.Dir.Output = DefaultOutputDir
	}
	if len(c.TemplateFormats) == 0 {
		for _, f := range content.DefaultFormats {
			c.TemplateFormats = append(c.TemplateFormats, string(f))
		}
	}
	if c.IconsDir == "" {
		c.IconsDir = DefaultIconsDir
	}
	if c.Site.Title == "" {
		c.Site.Title = DefaultSiteTitle
	}
	if c.Site.URL == "" {
		c.Site.URL = DefaultSiteURL
	}
	if c.Site.Language == "" {
		c.Site.Language = DefaultLanguage
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Preview.NotFound == "" {
		c.Preview.NotFound = DefaultNotFound
	}
	c.Logging.Level = string(NormalizeLogLevel(c.Logging.Level))
	c.Logging.Format = string(NormalizeLogFormat(c.Logging.Format))
}
