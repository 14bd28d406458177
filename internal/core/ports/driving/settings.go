package driving

import "github.com/custodia-labs/scanprep/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key, e.g. "dataverse.address".
	Set(key, value string) error

	// Keys lists the keys accepted by Set.
	Keys() []string

	// Validate checks the stored settings.
	Validate() error

	// SetLastArtifact persists the most recent mesh artifact path.
	SetLastArtifact(path string) error

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
