package archive

import (
	"context"
	"io/fs"
	"path/filepath"
)

// walkEntries visits every entry (recursively for directories) below dir in
// lexical order. rel uses forward slashes, as both archive formats require.
func walkEntries(ctx context.Context, dir string, entries []string, fn func(path, rel string, d fs.DirEntry) error) error {
	for _, entry := range entries {
		root := filepath.Join(dir, entry)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			return fn(path, filepath.ToSlash(rel), d)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
