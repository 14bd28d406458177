package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func TestHistoryStore_SaveGet(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	job := domain.JobRecord{ID: "1", Kind: domain.JobPack, Status: domain.JobRunning, StartedAt: time.Now()}

	require.NoError(t, store.Save(ctx, job))
	job.Status = domain.JobSucceeded
	require.NoError(t, store.Save(ctx, job))

	got, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobSucceeded, got.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_ListNewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, domain.JobRecord{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
