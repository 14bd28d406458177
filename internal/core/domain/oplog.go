package domain

import (
	"fmt"
	"path/filepath"
)

// OperationKind identifies the file-system action an entry describes.
type OperationKind string

// Operation kinds emitted by batch file operations.
const (
	OpRename       OperationKind = "rename"
	OpRootRename   OperationKind = "root_rename"
	OpContentWrite OperationKind = "content_rewrite"
	OpCreateDir    OperationKind = "create_dir"
	OpDelete       OperationKind = "delete"
	OpConvert      OperationKind = "convert"
	OpCopy         OperationKind = "copy"
	OpList         OperationKind = "list"
)

// OperationLogEntry records the outcome of a single file-system action.
// Batch operations return a sequence of these instead of failing as a whole.
type OperationLogEntry struct {
	Kind OperationKind

	// Path is the item the action was applied to.
	Path string

	// Target is the resulting path, when the action produces one.
	Target string

	// Err is nil on success.
	Err error
}

// Success reports whether the action completed.
func (e OperationLogEntry) Success() bool {
	return e.Err == nil
}

// String renders the entry as a human-readable line.
func (e OperationLogEntry) String() string {
	name := baseName(e.Path)
	target := baseName(e.Target)

	if e.Err != nil {
		switch e.Kind {
		case OpRename:
			return fmt.Sprintf("Failed to rename %s: %v", name, e.Err)
		case OpRootRename:
			return fmt.Sprintf("Error while renaming folder: %v", e.Err)
		case OpContentWrite:
			return fmt.Sprintf("Error updating file %s: %v", name, e.Err)
		case OpCreateDir:
			return fmt.Sprintf("Failed to create %s: %v", e.Path, e.Err)
		case OpDelete:
			return fmt.Sprintf("Failed to delete %s: %v", name, e.Err)
		case OpConvert:
			return fmt.Sprintf("Failed to convert %s: %v", name, e.Err)
		case OpCopy:
			return fmt.Sprintf("Failed to copy %s: %v", name, e.Err)
		case OpList:
			return fmt.Sprintf("Could not read folder %s: %v", name, e.Err)
		default:
			return fmt.Sprintf("%s failed on %s: %v", e.Kind, name, e.Err)
		}
	}

	switch e.Kind {
	case OpRename:
		return fmt.Sprintf("Renamed %s → %s", name, target)
	case OpRootRename:
		return fmt.Sprintf("Folder renamed into %s", target)
	case OpContentWrite:
		return fmt.Sprintf("Updated content in %s", name)
	case OpCreateDir:
		return fmt.Sprintf("Created %s", e.Path)
	case OpDelete:
		return fmt.Sprintf("Deleted %s", name)
	case OpConvert:
		return fmt.Sprintf("Converted %s → %s", name, target)
	case OpCopy:
		return fmt.Sprintf("Imported %s", name)
	default:
		return fmt.Sprintf("%s %s", e.Kind, name)
	}
}

// CountFailures returns the number of failed entries in log.
func CountFailures(log []OperationLogEntry) int {
	n := 0
	for _, e := range log {
		if !e.Success() {
			n++
		}
	}
	return n
}

func baseName(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}
