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

// Ensure PackagerService implements the interface.
var _ driving.ArchivePackager = (*PackagerService)(nil)

// workDirPrefix names the per-archive working directories.
const workDirPrefix = "scanprep-"

// PackagerService copies sources into a fresh working directory and
// archives them there.
type PackagerService struct {
	tempRoot  string
	newID     func() string
	archivers []driven.Archiver
}

// NewPackagerService creates a new packager. Working directories are created
// under tempRoot (os.TempDir() when empty) and named with newID. The archiver
// is picked by matching the archive name against each Extension.
func NewPackagerService(tempRoot string, newID func() string, archivers ...driven.Archiver) *PackagerService {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	return &PackagerService{
		tempRoot:  tempRoot,
		newID:     newID,
		archivers: archivers,
	}
}

// Pack validates everything up front, so nothing is copied when a source is
// missing, two sources share a base name or the format is unknown.
func (s *PackagerService) Pack(ctx context.Context, sources []string, archiveName string) (string, error) {
	if len(sources) == 0 {
		return "", fmt.Errorf("%w: nothing to pack", domain.ErrInvalidInput)
	}
	if archiveName == "" || archiveName != filepath.Base(archiveName) || archiveName == "." || archiveName == ".." {
		return "", fmt.Errorf("%w: archive name %q must be a plain file name", domain.ErrInvalidInput, archiveName)
	}
	archiver, err := s.archiverFor(archiveName)
	if err != nil {
		return "", err
	}

	entries := make([]string, 0, len(sources))
	resolved := make([]string, 0, len(sources))
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, src, err)
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", domain.ErrNotFound, src)
			}
			return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
		name := filepath.Base(abs)
		if name == "." || name == ".." || name == string(filepath.Separator) || abs == filepath.VolumeName(abs)+string(filepath.Separator) {
			return "", fmt.Errorf("%w: cannot pack the file system root %s", domain.ErrInvalidInput, src)
		}
		if isWithin(s.tempRoot, abs) {
			return "", fmt.Errorf("%w: %s contains the working directory %s", domain.ErrInvalidInput, src, s.tempRoot)
		}
		if prev, ok := seen[name]; ok {
			return "", fmt.Errorf("%w: %s and %s both pack as %q", domain.ErrAlreadyExists, prev, src, name)
		}
		if name == archiveName {
			return "", fmt.Errorf("%w: source %s has the archive's name", domain.ErrAlreadyExists, src)
		}
		seen[name] = src
		entries = append(entries, name)
		resolved = append(resolved, abs)
	}

	workDir := filepath.Join(s.tempRoot, workDirPrefix+s.newID())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create working directory: %w", domain.ErrIO, err)
	}
	logger.Section("Pack")
	logger.Debug("working directory %s", workDir)

	for i, src := range resolved {
		if err := ctx.Err(); err != nil {
			_ = os.RemoveAll(workDir)
			return "", err
		}
		if err := copyPath(src, filepath.Join(workDir, entries[i])); err != nil {
			_ = os.RemoveAll(workDir)
			return "", fmt.Errorf("%w: copy %s: %w", domain.ErrIO, src, err)
		}
		logger.Debug("copied %s", src)
	}

	dest := filepath.Join(workDir, archiveName)
	if err := archiver.Archive(ctx, workDir, entries, dest); err != nil {
		_ = os.RemoveAll(workDir)
		return "", fmt.Errorf("%w: %w", domain.ErrCompression, err)
	}

	logger.Info("archive created at %s", dest)
	return dest, nil
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Cleanup removes the working directory holding archivePath.
func (s *PackagerService) Cleanup(archivePath string) error {
	dir := filepath.Dir(archivePath)
	if !strings.HasPrefix(filepath.Base(dir), workDirPrefix) {
		return fmt.Errorf("%w: %s was not produced by the packager", domain.ErrInvalidInput, archivePath)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}

// Extensions lists the archive suffixes the packager can produce.
func (s *PackagerService) Extensions() []string {
	exts := make([]string, len(s.archivers))
	for i, a := range s.archivers {
		exts[i] = a.Extension()
	}
	return exts
}

func (s *PackagerService) archiverFor(name string) (driven.Archiver, error) {
	lower := strings.ToLower(name)
	for _, a := range s.archivers {
		if ext := a.Extension(); len(lower) > len(ext) && strings.HasSuffix(lower, ext) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported archive format %q (supported: %s)",
		domain.ErrInvalidInput, name, strings.Join(s.Extensions(), ", "))
}
