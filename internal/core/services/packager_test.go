package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// mockArchiver records what it was asked to archive and writes a listing.
type mockArchiver struct {
	ext     string
	err     error
	dir     string
	entries []string
}

func (m *mockArchiver) Extension() string { return m.ext }

func (m *mockArchiver) Archive(_ context.Context, dir string, entries []string, dest string) error {
	m.dir = dir
	m.entries = entries
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(dest, []byte(strings.Join(entries, "\n")), 0o644)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("job%d", n)
	}
}

func TestPackagerService_Pack(t *testing.T) {
	src := t.TempDir()
	fileA := filepath.Join(src, "README.txt")
	dirB := filepath.Join(src, "Rib_I")
	writeTestFile(t, fileA, "readme")
	writeTestFile(t, filepath.Join(dirB, "model", "rib.obj"), "v 1 2 3")

	tmp := t.TempDir()
	zip := &mockArchiver{ext: ".zip"}
	service := NewPackagerService(tmp, sequentialIDs(), zip, &mockArchiver{ext: ".tar.zst"})

	archive, err := service.Pack(context.Background(), []string{fileA, dirB}, "dataset.zip")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "scanprep-job1", "dataset.zip"), archive)
	assert.Equal(t, []string{"README.txt", "Rib_I"}, zip.entries)
	assert.Equal(t, "readme", readTestFile(t, filepath.Join(zip.dir, "README.txt")))
	assert.Equal(t, "v 1 2 3", readTestFile(t, filepath.Join(zip.dir, "Rib_I", "model", "rib.obj")))
	assert.FileExists(t, archive)

	require.NoError(t, service.Cleanup(archive))
	assert.NoDirExists(t, filepath.Dir(archive))
}

func TestPackagerService_Pack_SelectsArchiverByExtension(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.obj")
	writeTestFile(t, src, "a")

	zip := &mockArchiver{ext: ".zip"}
	zst := &mockArchiver{ext: ".tar.zst"}
	service := NewPackagerService(t.TempDir(), sequentialIDs(), zip, zst)

	_, err := service.Pack(context.Background(), []string{src}, "Dataset.TAR.ZST")

	require.NoError(t, err)
	assert.Nil(t, zip.entries)
	assert.Equal(t, []string{"a.obj"}, zst.entries)
}

func TestPackagerService_Pack_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one", "model.obj")
	two := filepath.Join(dir, "two", "model.obj")
	writeTestFile(t, one, "1")
	writeTestFile(t, two, "2")

	tests := []struct {
		name    string
		sources []string
		archive string
		wantErr error
	}{
		{name: "no sources", sources: nil, archive: "a.zip", wantErr: domain.ErrInvalidInput},
		{name: "name with directory", sources: []string{one}, archive: "sub/a.zip", wantErr: domain.ErrInvalidInput},
		{name: "unknown format", sources: []string{one}, archive: "a.rar", wantErr: domain.ErrInvalidInput},
		{name: "bare extension", sources: []string{one}, archive: ".zip", wantErr: domain.ErrInvalidInput},
		{name: "missing source", sources: []string{filepath.Join(dir, "none")}, archive: "a.zip", wantErr: domain.ErrNotFound},
		{name: "base name collision", sources: []string{one, two}, archive: "a.zip", wantErr: domain.ErrAlreadyExists},
		{name: "valid", sources: []string{one}, archive: "model.obj.zip", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			service := NewPackagerService(tmp, sequentialIDs(), &mockArchiver{ext: ".zip"})

			_, err := service.Pack(context.Background(), tt.sources, tt.archive)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			entries, readErr := os.ReadDir(tmp)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing is copied when validation fails")
		})
	}
}

func TestPackagerService_Pack_ArchiverFailure(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.obj")
	writeTestFile(t, src, "a")
	tmp := t.TempDir()

	service := NewPackagerService(tmp, sequentialIDs(), &mockArchiver{ext: ".zip", err: errors.New("disk full")})

	_, err := service.Pack(context.Background(), []string{src}, "a.zip")

	assert.ErrorIs(t, err, domain.ErrCompression)
	assert.NoDirExists(t, filepath.Join(tmp, "scanprep-job1"))
}

func TestPackagerService_Pack_Cancelled(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.obj")
	writeTestFile(t, src, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPackagerService(t.TempDir(), sequentialIDs(), &mockArchiver{ext: ".zip"}).Pack(ctx, []string{src}, "a.zip")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPackagerService_Cleanup_RejectsForeignPaths(t *testing.T) {
	dir := t.TempDir()
	err := NewPackagerService("", sequentialIDs()).Cleanup(filepath.Join(dir, "a.zip"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.DirExists(t, dir)
}

func TestPackagerService_Pack_RelativeSources(t *testing.T) {
	specimen := filepath.Join(t.TempDir(), "Specimen")
	writeTestFile(t, filepath.Join(specimen, "model", "rib.obj"), "v 1 2 3")
	t.Chdir(filepath.Join(specimen, "model"))

	tests := []struct {
		source    string
		wantEntry string
		wantFile  string
	}{
		{source: ".", wantEntry: "model", wantFile: filepath.Join("model", "rib.obj")},
		{source: "..", wantEntry: "Specimen", wantFile: filepath.Join("Specimen", "model", "rib.obj")},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tmp := t.TempDir()
			zip := &mockArchiver{ext: ".zip"}
			service := NewPackagerService(tmp, sequentialIDs(), zip)

			archive, err := service.Pack(context.Background(), []string{tt.source}, "dataset.zip")

			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantEntry}, zip.entries)
			assert.Equal(t, filepath.Join(tmp, "scanprep-job1"), zip.dir)
			assert.Equal(t, "v 1 2 3", readTestFile(t, filepath.Join(zip.dir, tt.wantFile)))

			// Nothing escapes the working directory.
			entries, err := os.ReadDir(tmp)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "scanprep-job1", entries[0].Name())
			require.NoError(t, service.Cleanup(archive))
		})
	}
}

func TestPackagerService_Pack_RejectsRootAndWorkingDirParent(t *testing.T) {
	tmp := t.TempDir()
	zip := &mockArchiver{ext: ".zip"}
	service := NewPackagerService(filepath.Join(tmp, "work"), sequentialIDs(), zip)

	_, err := service.Pack(context.Background(), []string{string(filepath.Separator)}, "dataset.zip")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Pack(context.Background(), []string{tmp}, "dataset.zip")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Nil(t, zip.entries)
	assert.NoDirExists(t, filepath.Join(tmp, "work"))
}
