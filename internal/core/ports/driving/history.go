package driving

import (
	"context"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// HistoryService records pipeline jobs.
type HistoryService interface {
	// Start records a running job.
	Start(ctx context.Context, kind domain.JobKind, target string) (*domain.JobRecord, error)

	// Finish marks the job succeeded or failed depending on err.
	Finish(ctx context.Context, job *domain.JobRecord, detail string, err error) error

	// List returns recent jobs, newest first.
	List(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
