package passthrough

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestCopier_FilesAndDirectories(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	write(t, in, "source/images/a.jpg", "jpeg-a")
	write(t, in, "source/images/trips/b.jpg", "jpeg-b")
	write(t, in, "source/robots.txt", "User-agent: *")
	write(t, in, "source/_includes/gridzy/gridzy.min.css", ".g{}")

	c := &Copier{InputDir: in, OutputDir: out}
	n, err := c.Copy(context.Background(), []Mapping{
		{From: "source/images", To: "images"},
		{From: "source/robots.txt", To: "robots.txt"},
		{From: "source/_includes/gridzy/gridzy.min.css", To: "css/gridzy.min.css"},
		{From: "source/manifest.json", To: "manifest.json"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, "jpeg-a", read(t, out, "images/a.jpg"))
	assert.Equal(t, "jpeg-b", read(t, out, "images/trips/b.jpg"))
	assert.Equal(t, "User-agent: *", read(t, out, "robots.txt"))
	assert.Equal(t, ".g{}", read(t, out, "css/gridzy.min.css"))
	_, err = os.Stat(filepath.Join(out, "manifest.json"))
	assert.True(t, os.IsNotExist(err), "missing sources are skipped")
}

func TestCopier_OverwritesExisting(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	write(t, in, "robots.txt", "new")
	write(t, out, "robots.txt", "old")

	_, err := (&Copier{InputDir: in, OutputDir: out}).Copy(context.Background(), []Mapping{{From: "robots.txt", To: "robots.txt"}})
	require.NoError(t, err)
	assert.Equal(t, "new", read(t, out, "robots.txt"))
}

func TestCopier_Canceled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	write(t, in, "images/a.jpg", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Copier{InputDir: in, OutputDir: out}).Copy(ctx, []Mapping{{From: "images", To: "images"}})
	assert.ErrorIs(t, err, context.Canceled)
}
