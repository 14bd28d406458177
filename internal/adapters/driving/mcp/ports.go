package mcp

import (
	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Scaler rescales mesh geometry.
	Scaler driving.GeometryScaler

	// Renamer renames model trees.
	Renamer driving.ModelRenamer

	// Structure builds folder templates.
	Structure driving.StructureBuilder

	// Metadata writes readme documents.
	Metadata driving.MetadataWriter

	// Packager creates archives.
	Packager driving.ArchivePackager

	// History lists recorded jobs.
	History driving.HistoryService

	// Pipeline holds the most recent artifact.
	Pipeline *domain.PipelineContext
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Scaler == nil {
		return ErrMissingScaler
	}
	// The remaining stages are optional; their tools are omitted when nil.
	return nil
}
