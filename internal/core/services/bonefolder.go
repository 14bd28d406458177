package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure BoneFolderService implements the interface.
var _ driving.BoneFolderService = (*BoneFolderService)(nil)

const (
	ontologyRows     = 10
	photosFolderName = "photos"
)

// BoneFolderService names specimen folders after anatomy ontology terms.
type BoneFolderService struct {
	client driven.OntologyClient
}

// NewBoneFolderService creates a new bone folder service.
func NewBoneFolderService(client driven.OntologyClient) *BoneFolderService {
	return &BoneFolderService{client: client}
}

// Search returns up to ten terms matching query.
func (s *BoneFolderService) Search(ctx context.Context, query string) ([]domain.AnatomyTerm, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}
	terms, err := s.client.Search(ctx, query, ontologyRows)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	logger.Debug("ontology search %q: %d terms", query, len(terms))
	return terms, nil
}

// CreateFolder creates parent/<oboID>_<label>, plus photos/ when asked.
// Existing folders are reused.
func (s *BoneFolderService) CreateFolder(parent string, term domain.AnatomyTerm, withPhotos bool) (string, error) {
	if term.Label == "" || term.OBOID == "" {
		return "", fmt.Errorf("%w: anatomy term needs a label and an id", domain.ErrInvalidInput)
	}
	info, err := os.Stat(parent)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, parent)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, parent)
	}

	name := term.FolderName()
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: unusable folder name %q", domain.ErrInvalidInput, name)
	}
	folder := filepath.Join(parent, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if withPhotos {
		if err := os.MkdirAll(filepath.Join(folder, photosFolderName), 0o755); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}

	logger.Info("folder created: %s", folder)
	return folder, nil
}

// ImportPhotos copies files into dest. Files already present in dest are
// not overwritten.
func (s *BoneFolderService) ImportPhotos(dest string, files []string) []domain.OperationLogEntry {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return []domain.OperationLogEntry{{Kind: domain.OpCreateDir, Path: dest, Err: err}}
	}

	log := make([]domain.OperationLogEntry, 0, len(files))
	for _, src := range files {
		target := filepath.Join(dest, filepath.Base(src))
		log = append(log, domain.OperationLogEntry{
			Kind:   domain.OpCopy,
			Path:   src,
			Target: target,
			Err:    importFile(src, target),
		})
	}
	return log
}

func importFile(src, target string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file", domain.ErrInvalidInput)
	}
	if pathExists(target) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, filepath.Base(target))
	}
	return copyFile(src, target, info.Mode().Perm())
}
