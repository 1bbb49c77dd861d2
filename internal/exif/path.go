package exif

import (
	"os"
	"path/filepath"
	"strings"
)

// resolve maps an image path from a template to a file. Relative paths and
// site-absolute paths ("/images/a.jpg") that do not exist on disk are
// resolved against root.
func resolve(root, p string) string {
	if root == "" {
		return p
	}
	if filepath.IsAbs(p) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func trimNul(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
