package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure ZipArchiver implements the interface.
var _ driven.Archiver = (*ZipArchiver)(nil)

// ZipArchiver writes deflate-compressed zip archives.
type ZipArchiver struct {
	level int
}

// NewZipArchiver creates a zip archiver. level is a flate level; zero picks
// the default.
func NewZipArchiver(level int) *ZipArchiver {
	if level == 0 {
		level = flate.DefaultCompression
	}
	return &ZipArchiver{level: level}
}

// Extension returns ".zip".
func (a *ZipArchiver) Extension() string { return ".zip" }

// Archive writes entries of dir into dest.
func (a *ZipArchiver) Archive(ctx context.Context, dir string, entries []string, dest string) (err error) {
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

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, a.level)
	})

	err = walkEntries(ctx, dir, entries, func(path, rel string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = rel
		if info.IsDir() {
			header.Name += "/"
			header.Method = zip.Store
			_, err := zw.CreateHeader(header)
			return err
		}
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyFileTo(w, path)
	})
	if err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func copyFileTo(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
