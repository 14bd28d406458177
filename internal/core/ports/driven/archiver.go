package driven

import "context"

// Archiver writes an archive from entries of a prepared directory.
type Archiver interface {
	// Extension is the archive name suffix this archiver produces,
	// e.g. ".zip" or ".tar.zst".
	Extension() string

	// Archive bundles the named entries of dir (files or directories,
	// recursively) into dest. Entry paths inside the archive are relative
	// to dir.
	Archive(ctx context.Context, dir string, entries []string, dest string) error
}
