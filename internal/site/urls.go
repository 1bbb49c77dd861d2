package site

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// Route computes the public URL and the output file (slash-separated,
// relative to the output dir) of an item.
//
//	permalink: /feed.xml  -> /feed.xml, feed.xml
//	permalink: /about/    -> /about/, about/index.html
//	posts/index.md        -> /posts/, posts/index.html
//	posts/trip.md         -> /posts/trip/, posts/trip/index.html
func Route(it *content.Item) (url, out string, err error) {
	if it.Permalink != "" {
		p := strings.TrimPrefix(it.Permalink, "/")
		out = p
		if p == "" || strings.HasSuffix(p, "/") {
			out = p + "index.html"
		}
		url = "/" + p
	} else {
		dir, file := path.Split(it.InputPath)
		stem := strings.TrimSuffix(file, path.Ext(file))
		if stem != "index" {
			dir = path.Join(dir, stem) + "/"
		}
		dir = strings.TrimPrefix(dir, "/")
		out = dir + "index.html"
		url = "/" + dir
	}
	out = path.Clean(out)
	if !filepath.IsLocal(filepath.FromSlash(out)) {
		return "", "", errors.ValidationError(fmt.Sprintf("permalink %q escapes the output directory", it.Permalink)).
			WithContext("path", it.InputPath).
			Build()
	}
	return url, out, nil
}
