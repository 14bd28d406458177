package driven

import (
	"context"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// CaptureEngine is the external photogrammetry engine.
// It is treated as opaque: the core consumes only progress and the output
// folder it writes to.
type CaptureEngine interface {
	// Run reconstructs a model from req.InputDir into req.OutputDir.
	// progress receives fractions in [0,1] as the engine reports them.
	Run(ctx context.Context, req domain.CaptureRequest, progress func(float64)) error
}

// MeasurementSource yields the calibration measurement read in the viewer.
type MeasurementSource interface {
	// Measurement returns the current measurement as text, or an error
	// wrapping domain.ErrMeasurementUnavailable when none is available yet.
	Measurement(ctx context.Context) (string, error)
}

// ChangeNotifier is implemented by sources that can signal when their value
// may have changed, letting callers wake before the next poll.
type ChangeNotifier interface {
	Changes() <-chan struct{}
}

// ImageTranscoder re-encodes texture images.
type ImageTranscoder interface {
	// IsImage reports whether the file content is a supported image.
	IsImage(path string) bool

	// ToJPEG decodes src and writes it to dst as JPEG at quality (1-100).
	ToJPEG(src, dst string, quality int) error
}

// OntologyClient searches an anatomy ontology.
type OntologyClient interface {
	// Search returns up to rows terms matching query.
	Search(ctx context.Context, query string, rows int) ([]domain.AnatomyTerm, error)
}
