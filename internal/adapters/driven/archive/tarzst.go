package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure TarZstdArchiver implements the interface.
var _ driven.Archiver = (*TarZstdArchiver)(nil)

// TarZstdArchiver writes tar streams compressed with zstd.
type TarZstdArchiver struct {
	level zstd.EncoderLevel
}

// NewTarZstdArchiver creates a tar.zst archiver at the given level.
func NewTarZstdArchiver(level zstd.EncoderLevel) *TarZstdArchiver {
	return &TarZstdArchiver{level: level}
}

// Extension returns ".tar.zst".
func (a *TarZstdArchiver) Extension() string { return ".tar.zst" }

// Archive writes entries of dir into dest.
func (a *TarZstdArchiver) Archive(ctx context.Context, dir string, entries []string, dest string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(a.level))
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	tw := tar.NewWriter(enc)

	err = walkEntries(ctx, dir, entries, func(path, rel string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = rel
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		return copyFileTo(tw, path)
	})
	if err != nil {
		_ = tw.Close()
		_ = enc.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
