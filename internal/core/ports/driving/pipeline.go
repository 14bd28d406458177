package driving

import (
	"context"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// GeometryScaler rescales the coordinates of text mesh files.
type GeometryScaler interface {
	// Scale multiplies vertex and normal coordinates of the mesh at path by
	// real/uncalibrated. With overwrite the file is replaced atomically,
	// otherwise "scaled_<name>" is written next to it. Returns the result path.
	Scale(path string, uncalibrated, real float64, overwrite bool) (string, error)
}

// ModelRenamer renames files and folders and rewrites references inside
// mesh and material files.
type ModelRenamer interface {
	// Rename applies op to the tree. Per-item failures are returned as log
	// entries; the error is reserved for invalid input.
	Rename(op domain.RenameOperation) ([]domain.OperationLogEntry, error)
}

// StructureBuilder creates templated folder trees.
type StructureBuilder interface {
	// Build creates base/term/line for every term and template line.
	// Existing folders are left untouched. Failures are logged, not fatal.
	Build(base string, terms []string, template domain.StructureTemplate) []domain.OperationLogEntry

	// GenerateTerms returns "{base}_{roman(i)}" for i = 1..count.
	GenerateTerms(base string, count int) []string
}

// MetadataWriter emits dataset readme documents.
type MetadataWriter interface {
	// Write renders record and writes it atomically to outputPath.
	Write(record *domain.MetadataRecord, outputPath string) error

	// ScanDataset computes size and file count of a dataset folder.
	ScanDataset(dir string) (domain.DatasetStats, error)
}

// ArchivePackager bundles files and folders into a single archive.
type ArchivePackager interface {
	// Pack copies sources into a fresh working directory and archives them
	// as archiveName. The caller owns the returned archive and its directory.
	Pack(ctx context.Context, sources []string, archiveName string) (string, error)

	// Cleanup removes the working directory of an archive produced by Pack.
	Cleanup(archivePath string) error
}

// DatasetUploader publishes files to a dataset repository.
type DatasetUploader interface {
	// Start validates req and begins the upload. Configuration errors are
	// returned before any network call. The returned session reports
	// progress and the final result.
	Start(ctx context.Context, req domain.UploadRequest) (*domain.UploadSession, error)

	// Mirror copies a file to the configured object storage mirror.
	Mirror(ctx context.Context, filePath string) (string, error)
}
