package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// datasetDir lays out a small prepared working directory.
func datasetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"README.txt":                "GENERAL INFORMATION",
		"Rib_I/model/rib.obj":       "v 1.0 2.0 3.0\n",
		"Rib_I/model/rib.mtl":       "newmtl m\n",
		"Rib_I/photos/IMG_0001.jpg": "jpeg",
		"ignored_not_an_entry.txt":  "not packed",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

var wantFiles = map[string]string{
	"README.txt":                "GENERAL INFORMATION",
	"Rib_I/model/rib.obj":       "v 1.0 2.0 3.0\n",
	"Rib_I/model/rib.mtl":       "newmtl m\n",
	"Rib_I/photos/IMG_0001.jpg": "jpeg",
}

func TestZipArchiver_Archive(t *testing.T) {
	dir := datasetDir(t)
	dest := filepath.Join(dir, "dataset.zip")

	a := NewZipArchiver(0)
	require.Equal(t, ".zip", a.Extension())
	require.NoError(t, a.Archive(context.Background(), dir, []string{"README.txt", "Rib_I"}, dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	got := make(map[string]string)
	var dirs []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			dirs = append(dirs, f.Name)
			continue
		}
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(data)
	}

	assert.Equal(t, wantFiles, got)
	sort.Strings(dirs)
	assert.Equal(t, []string{"Rib_I/", "Rib_I/model/", "Rib_I/photos/"}, dirs)
}

func TestTarZstdArchiver_Archive(t *testing.T) {
	dir := datasetDir(t)
	dest := filepath.Join(dir, "dataset.tar.zst")

	a := NewTarZstdArchiver(zstd.SpeedFastest)
	require.Equal(t, ".tar.zst", a.Extension())
	require.NoError(t, a.Archive(context.Background(), dir, []string{"README.txt", "Rib_I"}, dest))

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	got := make(map[string]string)
	tr := tar.NewReader(dec)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if h.Typeflag == tar.TypeDir {
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		got[h.Name] = string(data)
	}

	assert.Equal(t, wantFiles, got)
}

func TestArchivers_MissingEntryRemovesDest(t *testing.T) {
	for _, a := range []interface {
		Archive(context.Context, string, []string, string) error
	}{NewZipArchiver(0), NewTarZstdArchiver(zstd.SpeedDefault)} {
		dir := t.TempDir()
		dest := filepath.Join(dir, "out")

		err := a.Archive(context.Background(), dir, []string{"missing"}, dest)

		assert.Error(t, err)
		assert.NoFileExists(t, dest)
	}
}

func TestArchivers_Cancelled(t *testing.T) {
	dir := datasetDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewZipArchiver(0).Archive(ctx, dir, []string{"Rib_I"}, filepath.Join(dir, "a.zip"))

	assert.ErrorIs(t, err, context.Canceled)
}
