// Package filters holds the template filters registered by the site
// configuration. Most are thin facades over a library: strftime for dates,
// tdewolff/minify for CSS and JS, bluemonday for stripping markup and
// x/net/html for rewriting feed links.
package filters
