package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records the jobs run through the CLI.
type HistoryService struct {
	store driven.HistoryStore
	newID func() string
	now   func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore, newID func() string) *HistoryService {
	return &HistoryService{
		store: store,
		newID: newID,
		now:   time.Now,
	}
}

// Start records a running job.
func (s *HistoryService) Start(ctx context.Context, kind domain.JobKind, target string) (*domain.JobRecord, error) {
	job := &domain.JobRecord{
		ID:        s.newID(),
		Kind:      kind,
		Target:    target,
		Status:    domain.JobRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, *job); err != nil {
		return nil, fmt.Errorf("record job: %w", err)
	}
	return job, nil
}

// Finish marks the job as succeeded, or failed when err is set. An empty
// detail on failure is filled with the error text.
func (s *HistoryService) Finish(ctx context.Context, job *domain.JobRecord, detail string, err error) error {
	if job == nil {
		return nil
	}
	job.FinishedAt = s.now().UTC()
	job.Status = domain.JobSucceeded
	job.Detail = detail
	if err != nil {
		job.Status = domain.JobFailed
		if detail == "" {
			job.Detail = err.Error()
		}
	}
	if saveErr := s.store.Save(ctx, *job); saveErr != nil {
		return fmt.Errorf("record job: %w", saveErr)
	}
	return nil
}

// List returns the most recent jobs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	return s.store.List(ctx, limit)
}
