package driven

import (
	"context"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// HistoryStore persists pipeline job records.
type HistoryStore interface {
	// Save creates or updates a job record.
	Save(ctx context.Context, job domain.JobRecord) error

	// Get retrieves a job by ID.
	// Returns domain.ErrNotFound if the job does not exist.
	Get(ctx context.Context, id string) (*domain.JobRecord, error)

	// List returns the most recent jobs, newest first.
	// A limit of zero or less returns every job.
	List(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
