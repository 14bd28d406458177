package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.JobRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{jobs: make(map[string]domain.JobRecord)}
}

// Save creates or updates a job record.
func (s *HistoryStore) Save(_ context.Context, job domain.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

// Get retrieves a job by ID.
func (s *HistoryStore) Get(_ context.Context, id string) (*domain.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// List returns jobs newest first. Ties are broken by ID for a stable order.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.JobRecord, error) {
	s.mu.RLock()
	jobs := make([]domain.JobRecord, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.RUnlock()

	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].StartedAt.Equal(jobs[k].StartedAt) {
			return jobs[i].StartedAt.After(jobs[k].StartedAt)
		}
		return jobs[i].ID > jobs[k].ID
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
