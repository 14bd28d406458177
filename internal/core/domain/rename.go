package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RenameOperation substitutes OldToken with NewToken in path segments and in
// the text of mesh and material files below Root.
type RenameOperation struct {
	Root     string
	OldToken string
	NewToken string
}

// Validate checks the operation's invariants.
func (op RenameOperation) Validate() error {
	if op.Root == "" {
		return fmt.Errorf("%w: root directory is required", ErrInvalidInput)
	}
	if op.OldToken == "" || op.NewToken == "" {
		return fmt.Errorf("%w: rename tokens must not be empty", ErrInvalidInput)
	}
	return nil
}

// Matches reports whether name contains the old token.
func (op RenameOperation) Matches(name string) bool {
	return strings.Contains(name, op.OldToken)
}

// Apply replaces every occurrence of the old token in s.
func (op RenameOperation) Apply(s string) string {
	return strings.ReplaceAll(s, op.OldToken, op.NewToken)
}

// rewritableExtensions lists file types whose content carries cross-references.
var rewritableExtensions = map[string]bool{
	".obj": true,
	".mtl": true,
}

// IsRewritable reports whether the file at path has a mesh or material
// extension, compared case-insensitively.
func IsRewritable(path string) bool {
	return rewritableExtensions[strings.ToLower(filepath.Ext(path))]
}
