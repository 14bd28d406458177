package mcp

import (
	"context"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// mockScaler is a mock implementation of driving.GeometryScaler.
type mockScaler struct {
	output string
	err    error

	path         string
	uncalibrated float64
	real         float64
	overwrite    bool
}

func (m *mockScaler) Scale(path string, uncalibrated, real float64, overwrite bool) (string, error) {
	m.path, m.uncalibrated, m.real, m.overwrite = path, uncalibrated, real, overwrite
	return m.output, m.err
}

// mockRenamer is a mock implementation of driving.ModelRenamer.
type mockRenamer struct {
	log []domain.OperationLogEntry
	err error
	op  domain.RenameOperation
}

func (m *mockRenamer) Rename(op domain.RenameOperation) ([]domain.OperationLogEntry, error) {
	m.op = op
	return m.log, m.err
}

// mockStructure is a mock implementation of driving.StructureBuilder.
type mockStructure struct {
	log      []domain.OperationLogEntry
	base     string
	terms    []string
	template domain.StructureTemplate
}

func (m *mockStructure) Build(base string, terms []string, template domain.StructureTemplate) []domain.OperationLogEntry {
	m.base, m.terms, m.template = base, terms, template
	return m.log
}

func (m *mockStructure) GenerateTerms(base string, count int) []string {
	return domain.GenerateTerms(base, count)
}

// mockMetadata is a mock implementation of driving.MetadataWriter.
type mockMetadata struct {
	stats  domain.DatasetStats
	err    error
	record *domain.MetadataRecord
	output string
}

func (m *mockMetadata) Write(record *domain.MetadataRecord, outputPath string) error {
	m.record, m.output = record, outputPath
	return m.err
}

func (m *mockMetadata) ScanDataset(_ string) (domain.DatasetStats, error) {
	return m.stats, m.err
}

// mockPackager is a mock implementation of driving.ArchivePackager.
type mockPackager struct {
	archive string
	err     error
	sources []string
	name    string
}

func (m *mockPackager) Pack(_ context.Context, sources []string, archiveName string) (string, error) {
	m.sources, m.name = sources, archiveName
	return m.archive, m.err
}

func (m *mockPackager) Cleanup(_ string) error {
	return nil
}

// mockHistory is a mock implementation of driving.HistoryService.
type mockHistory struct {
	jobs []domain.JobRecord
	err  error
}

func (m *mockHistory) Start(_ context.Context, kind domain.JobKind, target string) (*domain.JobRecord, error) {
	return &domain.JobRecord{Kind: kind, Target: target, Status: domain.JobRunning}, m.err
}

func (m *mockHistory) Finish(_ context.Context, _ *domain.JobRecord, _ string, _ error) error {
	return m.err
}

func (m *mockHistory) List(_ context.Context, _ int) ([]domain.JobRecord, error) {
	return m.jobs, m.err
}
