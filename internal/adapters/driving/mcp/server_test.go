package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil scaler returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingScaler)
	})

	t.Run("scaler only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Scaler: &mockScaler{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("all ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Scaler:    &mockScaler{},
			Renamer:   &mockRenamer{},
			Structure: &mockStructure{},
			Metadata:  &mockMetadata{},
			Packager:  &mockPackager{},
			History:   &mockHistory{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingScaler)
	assert.NoError(t, (&Ports{Scaler: &mockScaler{}}).Validate())
}

func TestInstructions(t *testing.T) {
	t.Run("scaler only", func(t *testing.T) {
		text := instructions(&Ports{Scaler: &mockScaler{}})

		assert.Contains(t, text, "Tools: scale_mesh.")
		assert.NotContains(t, text, "pack_files")
		assert.NotContains(t, text, "scanprep://history")
	})

	t.Run("all ports", func(t *testing.T) {
		text := instructions(&Ports{
			Scaler:    &mockScaler{},
			Renamer:   &mockRenamer{},
			Structure: &mockStructure{},
			Metadata:  &mockMetadata{},
			Packager:  &mockPackager{},
			History:   &mockHistory{},
		})

		assert.Contains(t, text, "scale_mesh, rename_models, build_structure, generate_terms, write_readme, pack_files.")
		assert.Contains(t, text, "scanprep://history")
	})
}
