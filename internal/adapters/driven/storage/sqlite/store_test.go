package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "history.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.HistoryStore().Save(ctx, domain.JobRecord{
		ID: "j1", Kind: domain.JobPack, Status: domain.JobRunning, StartedAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	job, err := reopened.HistoryStore().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobPack, job.Kind)
}

func TestStore_MigrateRecordsVersions(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	extra := fstest.MapFS{
		"001_jobs.up.sql":  {Data: []byte("SELECT 1;")},
		"002_notes.up.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY);")},
		"README.md":        {Data: []byte("ignored")},
	}
	require.NoError(t, store.migrate(extra))
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)

	// Running again is a no-op.
	require.NoError(t, store.migrate(extra))
}

func TestStore_MigrateFailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	err := store.migrate(fstest.MapFS{
		"005_broken.up.sql": {Data: []byte("CREATE TABLE broken (; ")},
	})

	assert.Error(t, err)
	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 5").Scan(&count))
	assert.Zero(t, count)
}
