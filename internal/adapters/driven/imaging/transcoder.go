// Package imaging re-encodes texture images as JPEG.
//
// Supported sources are PNG, JPEG, TIFF and BMP. Content is sniffed from the
// file header rather than trusted from its extension.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure Transcoder implements the interface.
var _ driven.ImageTranscoder = (*Transcoder)(nil)

// headerSize is enough for filetype to recognise every supported format.
const headerSize = 261

// decodable lists the sniffed extensions that have a registered decoder.
var decodable = map[string]bool{
	"jpg": true,
	"png": true,
	"tif": true,
	"bmp": true,
}

// Transcoder converts textures with the standard image codecs.
type Transcoder struct{}

// NewTranscoder creates a new transcoder.
func NewTranscoder() *Transcoder {
	return &Transcoder{}
}

// IsImage reports whether path holds a decodable image.
func (t *Transcoder) IsImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}

	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false
	}
	return decodable[kind.Extension]
}

// ToJPEG decodes src and writes it to dst as JPEG. src and dst may be the
// same file; dst is only replaced once encoding succeeded.
func (t *Transcoder) ToJPEG(src, dst string, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("%w: jpeg quality %d out of range", domain.ErrInvalidInput, quality)
	}

	img, err := decodeFile(src)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("%w: encoding %s: %w", domain.ErrIO, filepath.Base(dst), err)
	}
	return replaceFile(dst, buf.Bytes())
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	return img, nil
}

// replaceFile writes data next to path and renames it into place.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".texture-*")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}
