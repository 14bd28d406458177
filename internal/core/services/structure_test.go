package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func TestStructureService_Build_CreatesEveryCombination(t *testing.T) {
	base := t.TempDir()
	service := NewStructureService()

	log := service.Build(base, []string{"Rib_I", "Rib_II"}, domain.StructureTemplate{"photos", "model"})

	assert.Len(t, log, 4)
	assert.Zero(t, domain.CountFailures(log))
	for _, p := range []string{"Rib_I/photos", "Rib_I/model", "Rib_II/photos", "Rib_II/model"} {
		assert.DirExists(t, filepath.Join(base, p))
	}
}

func TestStructureService_Build_Idempotent(t *testing.T) {
	base := t.TempDir()
	service := NewStructureService()
	terms := []string{"Rib_I", "Rib_II"}
	tmpl := domain.StructureTemplate{"photos", "model"}

	service.Build(base, terms, tmpl)
	log := service.Build(base, terms, tmpl)

	assert.Empty(t, log)
	assert.DirExists(t, filepath.Join(base, "Rib_II", "model"))
}

func TestStructureService_Build_NestedAndBlankLines(t *testing.T) {
	base := t.TempDir()

	log := NewStructureService().Build(base, []string{" Skull ", ""}, domain.StructureTemplate{"  ", "model/textures", "photos\t"})

	assert.Len(t, log, 2)
	assert.DirExists(t, filepath.Join(base, "Skull", "model", "textures"))
	assert.DirExists(t, filepath.Join(base, "Skull", "photos"))
}

func TestStructureService_Build_BestEffort(t *testing.T) {
	base := t.TempDir()
	// A file where a term folder should go blocks that term only.
	writeTestFile(t, filepath.Join(base, "Blocked"), "x")

	log := NewStructureService().Build(base, []string{"Blocked", "Open"}, domain.StructureTemplate{"photos"})

	require.Len(t, log, 2)
	assert.False(t, log[0].Success())
	assert.True(t, log[1].Success())
	assert.DirExists(t, filepath.Join(base, "Open", "photos"))
}

func TestStructureService_Build_RejectsEscapes(t *testing.T) {
	base := t.TempDir()

	log := NewStructureService().Build(base, []string{"Rib_I"}, domain.StructureTemplate{"../../outside"})

	require.Len(t, log, 1)
	assert.ErrorIs(t, log[0].Err, domain.ErrInvalidInput)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(base), "outside"))
}

func TestStructureService_Build_EmptyTemplate(t *testing.T) {
	base := t.TempDir()

	log := NewStructureService().Build(base, []string{"Rib_I"}, nil)

	assert.Empty(t, log)
	assert.NoDirExists(t, filepath.Join(base, "Rib_I"))
}

func TestStructureService_GenerateTerms(t *testing.T) {
	service := NewStructureService()

	assert.Equal(t, []string{"Rib_I", "Rib_II", "Rib_III", "Rib_IV"}, service.GenerateTerms("Rib", 4))
	assert.Empty(t, service.GenerateTerms("Rib", 0))
}
