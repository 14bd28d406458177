package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure ScalerService implements the interface.
var _ driving.GeometryScaler = (*ScalerService)(nil)

// scaledPrefix is prepended to the file name when the original is kept.
const scaledPrefix = "scaled_"

// ScalerService rescales text meshes and records the result in the
// pipeline context.
type ScalerService struct {
	pipeline *domain.PipelineContext
}

// NewScalerService creates a new scaler. pipeline may be nil.
func NewScalerService(pipeline *domain.PipelineContext) *ScalerService {
	return &ScalerService{pipeline: pipeline}
}

// Scale multiplies every vertex and normal coordinate in the mesh at path by
// real/uncalibrated and returns the path that was written.
func (s *ScalerService) Scale(path string, uncalibrated, real float64, overwrite bool) (string, error) {
	factor, err := domain.NewScaleFactor(uncalibrated, real)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read mesh: %w", domain.ErrIO, err)
	}

	doc := domain.ParseMesh(string(content))
	doc.Scale(factor)
	logger.Debug("scaled %d geometry lines in %s by %v", doc.GeometryCount(), filepath.Base(path), float64(factor))

	dest := path
	if !overwrite {
		dest = filepath.Join(filepath.Dir(path), scaledPrefix+filepath.Base(path))
	}

	if err := writeFileAtomic(dest, []byte(doc.Text())); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	if s.pipeline != nil {
		s.pipeline.SetLastArtifact(dest)
	}
	logger.Info("scaled mesh written to %s", dest)
	return dest, nil
}
