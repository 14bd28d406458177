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

// Ensure MetadataService implements the interface.
var _ driving.MetadataWriter = (*MetadataService)(nil)

// MetadataService writes dataset readme documents.
type MetadataService struct{}

// NewMetadataService creates a new metadata writer.
func NewMetadataService() *MetadataService {
	return &MetadataService{}
}

// Write renders record and replaces outputPath with it atomically. Missing
// parent folders are created.
func (s *MetadataService) Write(record *domain.MetadataRecord, outputPath string) error {
	if record == nil {
		return fmt.Errorf("%w: metadata record is required", domain.ErrInvalidInput)
	}
	if outputPath == "" {
		return fmt.Errorf("%w: output path is required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := writeFileAtomic(outputPath, []byte(record.Render())); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	logger.Info("readme written to %s", outputPath)
	return nil
}

// ScanDataset sums the size of every regular file below dir.
func (s *MetadataService) ScanDataset(dir string) (domain.DatasetStats, error) {
	var stats domain.DatasetStats

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
		}
		return stats, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	err = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		stats.TotalBytes += fi.Size()
		stats.FileCount++
		return nil
	})
	if err != nil {
		return domain.DatasetStats{}, fmt.Errorf("%w: scan dataset: %w", domain.ErrIO, err)
	}

	logger.Debug("dataset %s: %d files, %d bytes", dir, stats.FileCount, stats.TotalBytes)
	return stats, nil
}
