package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// textureExtensions are the image types re-encoded by CompressTextures.
var textureExtensions = map[string]bool{
	".png": true, ".tif": true, ".tiff": true, ".bmp": true, ".jpeg": true, ".jpg": true,
}

// ExportService trims and compresses capture export folders.
type ExportService struct {
	transcoder driven.ImageTranscoder
}

// NewExportService creates a new export post-processor.
func NewExportService(transcoder driven.ImageTranscoder) *ExportService {
	return &ExportService{transcoder: transcoder}
}

// Cleanup deletes the by-products selected in opts from the top level of
// folder. Names are matched case-insensitively.
func (s *ExportService) Cleanup(folder string, opts domain.CleanupOptions) []domain.OperationLogEntry {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return []domain.OperationLogEntry{{Kind: domain.OpList, Path: folder, Err: err}}
	}

	var log []domain.OperationLogEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !shouldDelete(name, opts) {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		err := os.Remove(path)
		if err != nil {
			logger.Warn("delete %s: %v", path, err)
		}
		log = append(log, domain.OperationLogEntry{Kind: domain.OpDelete, Path: path, Err: err})
	}
	return log
}

func shouldDelete(name string, opts domain.CleanupOptions) bool {
	switch {
	case opts.USDA && filepath.Ext(name) == ".usda":
		return true
	case opts.AO && strings.Contains(name, "ao0"):
		return true
	case opts.Displacement && strings.Contains(name, "disp0"):
		return true
	case opts.Normal && strings.Contains(name, "norm0"):
		return true
	case opts.Roughness && strings.Contains(name, "roughness"):
		return true
	}
	return false
}

// CompressTextures re-encodes every texture in folder as JPEG. Textures in
// other formats are replaced by a .jpg sibling and the folder's material
// file is updated to point at the new names.
func (s *ExportService) CompressTextures(folder string, quality int) ([]domain.OperationLogEntry, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("%w: jpeg quality must be between 1 and 100", domain.ErrInvalidInput)
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	var (
		log      []domain.OperationLogEntry
		mapping  = make(map[string]string)
		material string
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		path := filepath.Join(folder, name)

		if ext == ".mtl" && material == "" {
			material = path
			continue
		}
		if !textureExtensions[ext] || !s.transcoder.IsImage(path) {
			continue
		}

		if ext == ".jpg" || ext == ".jpeg" {
			err := s.transcoder.ToJPEG(path, path, quality)
			log = append(log, domain.OperationLogEntry{Kind: domain.OpConvert, Path: path, Target: path, Err: err})
			continue
		}

		target := strings.TrimSuffix(path, filepath.Ext(name)) + ".jpg"
		if pathExists(target) {
			err := fmt.Errorf("%w: %s", domain.ErrAlreadyExists, filepath.Base(target))
			logger.Warn("compress %s: %v", path, err)
			log = append(log, domain.OperationLogEntry{Kind: domain.OpConvert, Path: path, Target: target, Err: err})
			continue
		}
		if err := s.transcoder.ToJPEG(path, target, quality); err != nil {
			logger.Warn("compress %s: %v", path, err)
			log = append(log, domain.OperationLogEntry{Kind: domain.OpConvert, Path: path, Err: err})
			continue
		}
		err := os.Remove(path)
		log = append(log, domain.OperationLogEntry{Kind: domain.OpConvert, Path: path, Target: target, Err: err})
		mapping[name] = filepath.Base(target)
	}

	if material != "" && len(mapping) > 0 {
		err := rewriteReferences(material, mapping)
		log = append(log, domain.OperationLogEntry{Kind: domain.OpContentWrite, Path: material, Err: err})
	}
	return log, nil
}

// rewriteReferences replaces texture names in a material file. Longer names
// are substituted first so a name that prefixes another is not clobbered.
func rewriteReferences(path string, mapping map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(mapping))
	for old := range mapping {
		names = append(names, old)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	pairs := make([]string, 0, 2*len(names))
	for _, old := range names {
		pairs = append(pairs, old, mapping[old])
	}
	content := strings.NewReplacer(pairs...).Replace(string(data))
	return writeFileAtomic(path, []byte(content))
}
