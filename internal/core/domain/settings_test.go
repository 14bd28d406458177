package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultArchiveName, s.Archive.DefaultName)
	assert.Equal(t, DefaultOntologyBaseURL, s.Ontology.BaseURL)
	assert.Equal(t, DefaultJPEGQuality, s.Capture.JPEGQuality)
	assert.Equal(t, "CC BY-NC 4.0", s.Readme.Licence)
	assert.False(t, s.Dataverse.IsConfigured())
	assert.False(t, s.Mirror.IsConfigured())
}

func TestDataverseSettings_IsConfigured(t *testing.T) {
	assert.False(t, DataverseSettings{Address: "https://x"}.IsConfigured())
	assert.False(t, DataverseSettings{Token: "t"}.IsConfigured())
	assert.True(t, DataverseSettings{Address: "https://x", Token: "t"}.IsConfigured())
}

func TestReadmeDefaults_Fields(t *testing.T) {
	fields := DefaultAppSettings().Readme.Fields()

	assert.Equal(t, "ENG", fields[KeyLanguage])
	assert.Equal(t, "photogrammetry", fields[KeyTechnique])
	assert.Equal(t, "", fields[KeyAuthorship])
}
