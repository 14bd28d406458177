package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func newTestSource(t *testing.T) (*Source, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurement.txt")
	s, err := NewSource(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestMeasurement_Unavailable(t *testing.T) {
	s, path := newTestSource(t)

	_, err := s.Measurement(context.Background())
	assert.ErrorIs(t, err, domain.ErrMeasurementUnavailable)

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	_, err = s.Measurement(context.Background())
	assert.ErrorIs(t, err, domain.ErrMeasurementUnavailable)
}

func TestMeasurement_ReadsTrimmedText(t *testing.T) {
	s, path := newTestSource(t)
	require.NoError(t, os.WriteFile(path, []byte("12,5 mm\n"), 0o644))

	text, err := s.Measurement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12,5 mm", text)
}

func TestChanges_SignalsOnWrite(t *testing.T) {
	s, path := newTestSource(t)

	require.NoError(t, os.WriteFile(path, []byte("3.2"), 0o644))

	select {
	case <-s.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestChanges_IgnoresOtherFiles(t *testing.T) {
	s, path := newTestSource(t)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))

	select {
	case <-s.Changes():
		t.Fatal("unexpected notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewSource_MissingDirectory(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "missing", "measurement.txt"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClose_Idempotent(t *testing.T) {
	s, _ := newTestSource(t)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
