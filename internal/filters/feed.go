package filters

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AbsoluteURL resolves path against base.
func AbsoluteURL(path, base string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("absoluteURL: parse base %q: %w", base, err)
	}
	p, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("absoluteURL: parse %q: %w", path, err)
	}
	return b.ResolveReference(p).String(), nil
}

// HTMLToAbsoluteURLs rewrites relative href and src attributes in an HTML
// fragment so the markup can be embedded in a feed.
func HTMLToAbsoluteURLs(fragment any, base string) (template.HTML, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("htmlToAbsoluteURLs: parse base %q: %w", base, err)
	}
	ctxNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(stringify(fragment)), ctxNode)
	if err != nil {
		return "", fmt.Errorf("htmlToAbsoluteURLs: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		rewriteURLs(n, b)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("htmlToAbsoluteURLs: %w", err)
		}
	}
	// #nosec G203 -- re-rendered from parsed page markup
	return template.HTML(sb.String()), nil
}

func rewriteURLs(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			if a.Namespace != "" || (a.Key != "href" && a.Key != "src") {
				continue
			}
			if strings.HasPrefix(a.Val, "#") {
				continue
			}
			ref, err := url.Parse(a.Val)
			if err != nil || ref.IsAbs() {
				continue
			}
			n.Attr[i].Val = base.ResolveReference(ref).String()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteURLs(c, base)
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case template.HTML:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
