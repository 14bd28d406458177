// Package domain defines the core business entities for scanprep.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - MeshDocument: A text mesh file split into geometry and opaque lines
//   - RenameOperation: A token substitution applied to a directory tree
//   - OperationLogEntry: The outcome of a single file-system action
//   - MetadataRecord: The fields of a dataset readme
//   - UploadSession: An in-flight dataset upload and its progress
//   - PipelineContext: The most recently produced mesh artifact
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
