package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure StructureService implements the interface.
var _ driving.StructureBuilder = (*StructureService)(nil)

// StructureService creates the per-term folder tree of a dataset.
type StructureService struct{}

// NewStructureService creates a new structure builder.
func NewStructureService() *StructureService {
	return &StructureService{}
}

// Build creates base/term/line for every term and template line.
// Creation is best-effort: a folder that cannot be created is logged and the
// remaining folders are still attempted. Folders that already exist are
// skipped without an entry.
func (s *StructureService) Build(base string, terms []string, template domain.StructureTemplate) []domain.OperationLogEntry {
	lines := domain.NormalizeTemplate(template)
	var log []domain.OperationLogEntry

	logger.Section("Structure")
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		for _, line := range lines {
			rel := filepath.Join(term, filepath.FromSlash(line))
			if !filepath.IsLocal(rel) {
				err := fmt.Errorf("%w: %q escapes the base folder", domain.ErrInvalidInput, rel)
				logger.Warn("skip %s: %v", rel, err)
				log = append(log, domain.OperationLogEntry{Kind: domain.OpCreateDir, Path: rel, Err: err})
				continue
			}

			path := filepath.Join(base, rel)
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				logger.Debug("exists: %s", path)
				continue
			}

			err := os.MkdirAll(path, 0o755)
			if err != nil {
				logger.Warn("create %s: %v", path, err)
			}
			log = append(log, domain.OperationLogEntry{Kind: domain.OpCreateDir, Path: path, Err: err})
		}
	}
	return log
}

// GenerateTerms returns "{base}_{roman(i)}" for i = 1..count.
func (s *StructureService) GenerateTerms(base string, count int) []string {
	return domain.GenerateTerms(base, count)
}
