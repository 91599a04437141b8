package tftbmp

import (
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/tftbmp/bmp"
	"github.com/bodgit/tftbmp/display"
	"github.com/bodgit/tftbmp/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	root := t.TempDir()

	for _, dir := range []string{"signs", ".hidden"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0755))
	}

	good := encode(t, uniform(4, 4, red), nil)
	files := map[string][]byte{
		"qr.bmp":             encode(t, uniform(2, 2, red), &bmp.Options{Depth: 16}),
		"signs/stop.BMP":     good,
		"signs/broken.bmp":   []byte("not a bitmap"),
		"signs/readme.txt":   []byte("ignored"),
		".hidden/secret.bmp": good,
	}
	for name, b := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(root, filepath.FromSlash(name)), b, 0644))
	}

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Import(db, root, nil))

	entries, err := db.List("/")
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{
		{Name: "/qr.bmp", Size: int64(len(files["qr.bmp"]))},
		{Name: "/signs", Dir: true},
	}, entries)

	entries, err = db.List("/signs")
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{
		{Name: "/signs/stop.BMP", Size: int64(len(good))},
	}, entries)

	// A second import leaves everything in place
	require.NoError(t, Import(db, root, nil))

	fb := display.NewFramebuffer(8, 8)
	require.NoError(t, New(db, fb, DefaultMaxWidth, nil).Draw("/signs/stop.BMP", 2, 2))
	assertBlock(t, fb, image.Rect(2, 2, 6, 6), display.Red)
}

func TestImportMissing(t *testing.T) {
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, Import(db, filepath.Join(t.TempDir(), "missing"), nil))
}
