package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// CaptureService runs the external engine and finalises its output.
type CaptureService interface {
	// Capture runs the engine and returns the produced model path.
	// Progress fractions are sent on progress without blocking; a nil
	// channel disables reporting.
	Capture(ctx context.Context, req domain.CaptureRequest, progress chan<- float64) (string, error)
}

// ExportService post-processes capture exports.
type ExportService interface {
	// Cleanup deletes export by-products selected by opts.
	Cleanup(folder string, opts domain.CleanupOptions) []domain.OperationLogEntry

	// CompressTextures re-encodes textures as JPEG and updates the
	// folder's material file.
	CompressTextures(folder string, quality int) ([]domain.OperationLogEntry, error)
}

// MeasurementService resolves the calibration measurement.
type MeasurementService interface {
	// Await retries the measurement source until it yields a positive
	// number or ctx is done.
	Await(ctx context.Context, interval time.Duration) (float64, error)
}

// BoneFolderService creates specimen folders named after anatomy terms.
type BoneFolderService interface {
	// Search looks up anatomy terms.
	Search(ctx context.Context, query string) ([]domain.AnatomyTerm, error)

	// CreateFolder creates parent/<term folder name> and, optionally, its
	// photos sub-folder. Returns the created folder path.
	CreateFolder(parent string, term domain.AnatomyTerm, withPhotos bool) (string, error)

	// ImportPhotos copies files into dest.
	ImportPhotos(dest string, files []string) []domain.OperationLogEntry
}
