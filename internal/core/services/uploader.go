package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure UploaderService implements the interface.
var _ driving.DatasetUploader = (*UploaderService)(nil)

// UploaderService publishes archives to a dataset repository and,
// optionally, to an object storage mirror.
type UploaderService struct {
	repo         driven.DatasetRepository
	mirror       driven.ArchiveMirror
	mirrorPrefix string
	newID        func() string
}

// NewUploaderService creates a new uploader. mirror may be nil when no
// object storage is configured.
func NewUploaderService(
	repo driven.DatasetRepository,
	mirror driven.ArchiveMirror,
	mirrorPrefix string,
	newID func() string,
) *UploaderService {
	return &UploaderService{
		repo:         repo,
		mirror:       mirror,
		mirrorPrefix: mirrorPrefix,
		newID:        newID,
	}
}

// Start checks the request and launches the transfer on its own goroutine.
// The caller follows it through the returned session; cancelling ctx
// abandons the request.
func (s *UploaderService) Start(ctx context.Context, req domain.UploadRequest) (*domain.UploadSession, error) {
	endpoint, err := domain.BuildUploadEndpoint(req.BaseAddress, req.DatasetID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Token) == "" {
		return nil, fmt.Errorf("%w: API token is empty", domain.ErrConfiguration)
	}
	if err := checkRegularFile(req.FilePath); err != nil {
		return nil, err
	}

	session := domain.NewUploadSession(s.newID(), req.FilePath, endpoint)
	logger.Section("Upload")
	logger.Debug("upload %s: %s -> %s", session.ID, req.FilePath, endpoint)

	go func() {
		body, err := s.repo.AddFile(ctx, endpoint, req.Token, req.FilePath, func(sent, total int64) {
			if total > 0 {
				session.Report(float64(sent) / float64(total))
			}
		})
		if err != nil {
			logger.Warn("upload %s failed: %v", session.ID, err)
		} else {
			logger.Info("upload %s finished", session.ID)
		}
		session.Complete(body, err)
	}()

	return session, nil
}

// Mirror copies filePath to the configured bucket under the mirror prefix.
func (s *UploaderService) Mirror(ctx context.Context, filePath string) (string, error) {
	if s.mirror == nil {
		return "", domain.ErrMirrorNotConfigured
	}
	if err := checkRegularFile(filePath); err != nil {
		return "", err
	}

	key := path.Join(s.mirrorPrefix, filepath.Base(filePath))
	location, err := s.mirror.Put(ctx, key, filePath)
	if err != nil {
		return "", fmt.Errorf("mirror %s: %w", filepath.Base(filePath), err)
	}
	logger.Info("mirrored %s to %s", filePath, location)
	return location, nil
}

func checkRegularFile(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, p)
		}
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, p)
	}
	return nil
}
