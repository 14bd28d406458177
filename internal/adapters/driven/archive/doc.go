// Package archive implements driven.Archiver with klauspost/compress:
// deflate zip files and zstd-compressed tarballs.
package archive
