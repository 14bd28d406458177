package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure RenamerService implements the interface.
var _ driving.ModelRenamer = (*RenamerService)(nil)

// RenamerService renames files and folders of a model tree and rewrites the
// references inside mesh and material files.
type RenamerService struct{}

// NewRenamerService creates a new renamer.
func NewRenamerService() *RenamerService {
	return &RenamerService{}
}

// Rename walks op.Root depth-first. Each directory listing is read once
// before anything inside it is touched, children are processed before their
// parent and the root itself is renamed last.
func (s *RenamerService) Rename(op domain.RenameOperation) ([]domain.OperationLogEntry, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	root := filepath.Clean(op.Root)
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, root)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
	}

	logger.Section("Rename")
	logger.Debug("replacing %q with %q below %s", op.OldToken, op.NewToken, root)

	var log []domain.OperationLogEntry
	s.processDir(op, root, &log)

	if op.Matches(filepath.Base(root)) {
		target := filepath.Join(filepath.Dir(root), op.Apply(filepath.Base(root)))
		err := move(root, target)
		log = append(log, domain.OperationLogEntry{
			Kind:   domain.OpRootRename,
			Path:   root,
			Target: target,
			Err:    err,
		})
	}

	logger.Info("rename finished: %d actions, %d failed", len(log), domain.CountFailures(log))
	return log, nil
}

func (s *RenamerService) processDir(op domain.RenameOperation, dir string, log *[]domain.OperationLogEntry) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		*log = append(*log, domain.OperationLogEntry{Kind: domain.OpList, Path: dir, Err: err})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			s.processDir(op, path, log)
		}

		if op.Matches(name) {
			target := filepath.Join(dir, op.Apply(name))
			err := move(path, target)
			*log = append(*log, domain.OperationLogEntry{
				Kind:   domain.OpRename,
				Path:   path,
				Target: target,
				Err:    err,
			})
			if err != nil {
				logger.Warn("rename %s: %v", path, err)
				continue
			}
			path = target
		}

		if entry.Type().IsRegular() && domain.IsRewritable(path) {
			s.rewriteContent(op, path, log)
		}
	}
}

// rewriteContent replaces the old token inside a mesh or material file.
// Files that do not mention the token are left alone and not logged.
func (s *RenamerService) rewriteContent(op domain.RenameOperation, path string, log *[]domain.OperationLogEntry) {
	data, err := os.ReadFile(path)
	if err != nil {
		*log = append(*log, domain.OperationLogEntry{Kind: domain.OpContentWrite, Path: path, Err: err})
		return
	}

	content := string(data)
	if !op.Matches(content) {
		return
	}

	err = writeFileAtomic(path, []byte(op.Apply(content)))
	*log = append(*log, domain.OperationLogEntry{Kind: domain.OpContentWrite, Path: path, Err: err})
}

// move renames src to dst, refusing to replace anything already at dst.
// A target that is the same file as src (case-only renames on
// case-insensitive file systems) is not a collision.
func move(src, dst string) error {
	if dstInfo, err := os.Lstat(dst); err == nil {
		srcInfo, srcErr := os.Lstat(src)
		if srcErr != nil || !os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, filepath.Base(dst))
		}
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}
