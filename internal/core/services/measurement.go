package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure MeasurementService implements the interface.
var _ driving.MeasurementService = (*MeasurementService)(nil)

const defaultMeasurementInterval = 500 * time.Millisecond

// MeasurementService waits for the viewer to expose a calibration
// measurement.
type MeasurementService struct {
	source driven.MeasurementSource
}

// NewMeasurementService creates a new measurement service.
func NewMeasurementService(source driven.MeasurementSource) *MeasurementService {
	return &MeasurementService{source: source}
}

// Await polls the source every interval until it returns a positive number.
// Sources that implement driven.ChangeNotifier wake the loop early. Errors
// other than domain.ErrMeasurementUnavailable end the wait.
func (s *MeasurementService) Await(ctx context.Context, interval time.Duration) (float64, error) {
	if interval <= 0 {
		interval = defaultMeasurementInterval
	}

	var changes <-chan struct{}
	if n, ok := s.source.(driven.ChangeNotifier); ok {
		changes = n.Changes()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		v, err := s.read(ctx)
		if err == nil {
			logger.Debug("measurement: %v", v)
			return v, nil
		}
		if !errors.Is(err, domain.ErrMeasurementUnavailable) {
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: %w", domain.ErrMeasurementUnavailable, ctx.Err())
		case <-ticker.C:
		case <-changes:
		}
	}
}

func (s *MeasurementService) read(ctx context.Context) (float64, error) {
	text, err := s.source.Measurement(ctx)
	if err != nil {
		return 0, err
	}
	return domain.ParseMeasurement(text)
}
