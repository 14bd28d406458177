package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure CaptureService implements the interface.
var _ driving.CaptureService = (*CaptureService)(nil)

// The engine may still be flushing its export when it reports completion.
const (
	defaultPollAttempts = 10
	defaultPollInterval = 500 * time.Millisecond
)

// CaptureService drives the photogrammetry engine and finalises its export.
type CaptureService struct {
	engine   driven.CaptureEngine
	export   driving.ExportService
	pipeline *domain.PipelineContext

	pollAttempts int
	pollInterval time.Duration
}

// NewCaptureService creates a new capture service. export and pipeline may
// be nil.
func NewCaptureService(
	engine driven.CaptureEngine,
	export driving.ExportService,
	pipeline *domain.PipelineContext,
) *CaptureService {
	return &CaptureService{
		engine:       engine,
		export:       export,
		pipeline:     pipeline,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
}

// Capture runs the engine and returns the path of the finished model.
func (s *CaptureService) Capture(ctx context.Context, req domain.CaptureRequest, progress chan<- float64) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if info, err := os.Stat(req.InputDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: input folder %s", domain.ErrNotFound, req.InputDir)
	}

	exportPath := req.ExportPath()
	mkdir := exportPath
	if req.Format == domain.FormatUSDZ {
		mkdir = filepath.Dir(exportPath)
	}
	if err := os.MkdirAll(mkdir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	logger.Section("Capture")
	logger.Debug("engine: %s -> %s (detail=%s, mask=%s)", req.InputDir, exportPath, req.Detail, req.Mask)

	err := s.engine.Run(ctx, req, func(f float64) {
		if progress == nil {
			return
		}
		select {
		case progress <- f:
		default:
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrCaptureFailed, err)
	}

	if req.Format == domain.FormatUSDZ {
		if _, err := os.Stat(exportPath); err != nil {
			return "", fmt.Errorf("%w: engine did not write %s", domain.ErrCaptureFailed, exportPath)
		}
		s.setArtifact(exportPath)
		return exportPath, nil
	}

	if s.export != nil {
		for _, e := range s.export.Cleanup(exportPath, req.Cleanup) {
			logger.Debug("%s", e)
		}
	}

	found, err := s.awaitOBJ(ctx, exportPath)
	if err != nil {
		return "", err
	}

	model := filepath.Join(exportPath, req.FileName+".obj")
	if found != model {
		if err := os.Rename(found, model); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}

	if req.CompressJPEG && s.export != nil {
		// Texture compression is an optimisation; the model is usable without it.
		log, err := s.export.CompressTextures(exportPath, req.JPEGQuality)
		if err != nil {
			logger.Warn("texture compression: %v", err)
		}
		for _, e := range log {
			logger.Debug("%s", e)
		}
	}

	s.setArtifact(model)
	logger.Info("capture finished: %s", model)
	return model, nil
}

// awaitOBJ polls dir for the first .obj file.
func (s *CaptureService) awaitOBJ(ctx context.Context, dir string) (string, error) {
	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		if p := firstOBJ(dir); p != "" {
			return p, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	if p := firstOBJ(dir); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("%w: no .obj file in %s", domain.ErrCaptureFailed, dir)
}

func firstOBJ(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".obj") {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

func (s *CaptureService) setArtifact(path string) {
	if s.pipeline != nil {
		s.pipeline.SetLastArtifact(path)
	}
}
