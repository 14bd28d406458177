package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// ScaleInput is the input schema for the scale_mesh tool.
type ScaleInput struct {
	Path         string  `json:"path,omitempty" jsonschema:"path of the .obj mesh to rescale (default: scanprep://artifact)"`
	Uncalibrated float64 `json:"uncalibrated" jsonschema:"length measured on the uncalibrated model"`
	Real         float64 `json:"real" jsonschema:"real-world length of the same feature"`
	Overwrite    bool    `json:"overwrite,omitempty" jsonschema:"replace the mesh instead of writing scaled_<name>"`
}

// ScaleOutput is the output schema for the scale_mesh tool.
type ScaleOutput struct {
	Output string `json:"output"`
}

// RenameInput is the input schema for the rename_models tool.
type RenameInput struct {
	Root     string `json:"root" jsonschema:"folder whose tree is renamed"`
	OldToken string `json:"old_token" jsonschema:"text to replace in names and mesh references"`
	NewToken string `json:"new_token" jsonschema:"replacement text"`
}

// LogOutput reports the entries of a batch file operation.
type LogOutput struct {
	Entries  []string `json:"entries"`
	Failures int      `json:"failures"`
}

// StructureInput is the input schema for the build_structure tool.
type StructureInput struct {
	Base     string   `json:"base" jsonschema:"folder in which term folders are created"`
	Terms    []string `json:"terms" jsonschema:"one folder is created per term"`
	Template string   `json:"template,omitempty" jsonschema:"sub-folder paths, one per line"`
}

// TermsInput is the input schema for the generate_terms tool.
type TermsInput struct {
	Base  string `json:"base" jsonschema:"prefix of every term"`
	Count int    `json:"count" jsonschema:"number of terms to generate"`
}

// TermsOutput is the output schema for the generate_terms tool.
type TermsOutput struct {
	Terms []string `json:"terms"`
}

// ReadmeInput is the input schema for the write_readme tool.
type ReadmeInput struct {
	Output     string            `json:"output" jsonschema:"path of the readme file to write"`
	Fields     map[string]string `json:"fields,omitempty" jsonschema:"metadata fields keyed by name, e.g. datasetTitle"`
	Structure  string            `json:"structure,omitempty" jsonschema:"structure section text"`
	Comments   string            `json:"comments,omitempty" jsonschema:"comments section text"`
	DatasetDir string            `json:"dataset_dir,omitempty" jsonschema:"folder whose size and file count are recorded"`
}

// ReadmeOutput is the output schema for the write_readme tool.
type ReadmeOutput struct {
	Output string `json:"output"`
}

// PackInput is the input schema for the pack_files tool.
type PackInput struct {
	Sources     []string `json:"sources" jsonschema:"files and folders to bundle"`
	ArchiveName string   `json:"archive_name" jsonschema:"archive file name; its extension picks the format"`
}

// PackOutput is the output schema for the pack_files tool.
type PackOutput struct {
	Archive string `json:"archive"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scale_mesh",
		Description: "Rescale the vertices and normals of an OBJ mesh by real/uncalibrated",
	}, s.handleScale)

	if s.ports.Renamer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "rename_models",
			Description: "Rename files and folders containing a token and update mesh and material references",
		}, s.handleRename)
	}

	if s.ports.Structure != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "build_structure",
			Description: "Create a folder per term with the given sub-folder template",
		}, s.handleBuildStructure)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "generate_terms",
			Description: "Generate numbered terms such as Femur_I, Femur_II",
		}, s.handleGenerateTerms)
	}

	if s.ports.Metadata != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "write_readme",
			Description: "Write a dataset readme document",
		}, s.handleWriteReadme)
	}

	if s.ports.Packager != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "pack_files",
			Description: "Bundle files and folders into a zip or tar.zst archive",
		}, s.handlePack)
	}
}

// handleScale handles the scale_mesh tool invocation.
func (s *Server) handleScale(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScaleInput,
) (*mcp.CallToolResult, ScaleOutput, error) {
	path := input.Path
	if path == "" {
		path = s.ports.Pipeline.LastArtifact()
	}
	if path == "" {
		return nil, ScaleOutput{}, fmt.Errorf("%w: no mesh given and no previous artifact", domain.ErrInvalidInput)
	}
	output, err := s.ports.Scaler.Scale(path, input.Uncalibrated, input.Real, input.Overwrite)
	if err != nil {
		return nil, ScaleOutput{}, err
	}
	return nil, ScaleOutput{Output: output}, nil
}

// handleRename handles the rename_models tool invocation.
func (s *Server) handleRename(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, LogOutput, error) {
	log, err := s.ports.Renamer.Rename(domain.RenameOperation{
		Root:     input.Root,
		OldToken: input.OldToken,
		NewToken: input.NewToken,
	})
	if err != nil {
		return nil, LogOutput{}, err
	}
	return nil, logOutput(log), nil
}

// handleBuildStructure handles the build_structure tool invocation.
func (s *Server) handleBuildStructure(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StructureInput,
) (*mcp.CallToolResult, LogOutput, error) {
	if input.Base == "" {
		return nil, LogOutput{}, fmt.Errorf("%w: base folder is required", domain.ErrInvalidInput)
	}
	log := s.ports.Structure.Build(input.Base, input.Terms, domain.ParseTemplate(input.Template))
	return nil, logOutput(log), nil
}

// handleGenerateTerms handles the generate_terms tool invocation.
func (s *Server) handleGenerateTerms(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TermsInput,
) (*mcp.CallToolResult, TermsOutput, error) {
	terms := s.ports.Structure.GenerateTerms(input.Base, input.Count)
	if terms == nil {
		terms = []string{}
	}
	return nil, TermsOutput{Terms: terms}, nil
}

// handleWriteReadme handles the write_readme tool invocation.
func (s *Server) handleWriteReadme(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReadmeInput,
) (*mcp.CallToolResult, ReadmeOutput, error) {
	record := domain.NewMetadataRecord()
	for k, v := range input.Fields {
		if err := record.Set(domain.MetadataKey(k), v); err != nil {
			return nil, ReadmeOutput{}, err
		}
	}
	record.Structure = input.Structure
	if record.Structure == "" {
		record.Structure = domain.DefaultStructureText
	}
	record.Comments = input.Comments

	if input.DatasetDir != "" {
		stats, err := s.ports.Metadata.ScanDataset(input.DatasetDir)
		if err != nil {
			return nil, ReadmeOutput{}, err
		}
		stats.Apply(record)
	}

	if err := s.ports.Metadata.Write(record, input.Output); err != nil {
		return nil, ReadmeOutput{}, err
	}
	return nil, ReadmeOutput{Output: input.Output}, nil
}

// handlePack handles the pack_files tool invocation.
func (s *Server) handlePack(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PackInput,
) (*mcp.CallToolResult, PackOutput, error) {
	archive, err := s.ports.Packager.Pack(ctx, input.Sources, input.ArchiveName)
	if err != nil {
		return nil, PackOutput{}, err
	}
	return nil, PackOutput{Archive: archive}, nil
}

func logOutput(log []domain.OperationLogEntry) LogOutput {
	out := LogOutput{Entries: make([]string, len(log))}
	for i, e := range log {
		out.Entries[i] = e.String()
	}
	out.Failures = domain.CountFailures(log)
	return out
}
