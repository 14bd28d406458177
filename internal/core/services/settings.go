package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataverseAddress = "dataverse.address"
	keyDataverseToken   = "dataverse.token"
	keyArchiveName      = "archive.default_name"
	keyCaptureCommand   = "capture.command"
	keyCaptureQuality   = "capture.jpeg_quality"
	keyMeasurementFile  = "capture.measurement_file"
	keyOntologyBaseURL  = "ontology.base_url"
	keyMirrorBucket     = "mirror.bucket"
	keyMirrorRegion     = "mirror.region"
	keyMirrorEndpoint   = "mirror.endpoint"
	keyMirrorPrefix     = "mirror.prefix"
	keyReadmeAuthorship = "readme.authorship"
	keyReadmeContact    = "readme.contact"
	keyReadmeLanguage   = "readme.language"
	keyReadmeSex        = "readme.sex"
	keyReadmeLifeStage  = "readme.life_stage"
	keyReadmeTechnique  = "readme.technique"
	keyReadmeLicence    = "readme.licence"
	keyLastArtifact     = "pipeline.last_artifact"
)

// validate is the singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// setting binds a config key to a field of domain.AppSettings.
type setting struct {
	get func(*domain.AppSettings) any
	set func(*domain.AppSettings, string) error
}

func stringSetting(field func(*domain.AppSettings) *string) setting {
	return setting{
		get: func(s *domain.AppSettings) any { return *field(s) },
		set: func(s *domain.AppSettings, v string) error {
			*field(s) = strings.TrimSpace(v)
			return nil
		},
	}
}

func intSetting(field func(*domain.AppSettings) *int) setting {
	return setting{
		get: func(s *domain.AppSettings) any { return *field(s) },
		set: func(s *domain.AppSettings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%q is not an integer", v)
			}
			*field(s) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	keyDataverseAddress: stringSetting(func(s *domain.AppSettings) *string { return &s.Dataverse.Address }),
	keyDataverseToken:   stringSetting(func(s *domain.AppSettings) *string { return &s.Dataverse.Token }),
	keyArchiveName:      stringSetting(func(s *domain.AppSettings) *string { return &s.Archive.DefaultName }),
	keyCaptureCommand:   stringSetting(func(s *domain.AppSettings) *string { return &s.Capture.Command }),
	keyCaptureQuality:   intSetting(func(s *domain.AppSettings) *int { return &s.Capture.JPEGQuality }),
	keyMeasurementFile:  stringSetting(func(s *domain.AppSettings) *string { return &s.Capture.MeasurementFile }),
	keyOntologyBaseURL:  stringSetting(func(s *domain.AppSettings) *string { return &s.Ontology.BaseURL }),
	keyMirrorBucket:     stringSetting(func(s *domain.AppSettings) *string { return &s.Mirror.Bucket }),
	keyMirrorRegion:     stringSetting(func(s *domain.AppSettings) *string { return &s.Mirror.Region }),
	keyMirrorEndpoint:   stringSetting(func(s *domain.AppSettings) *string { return &s.Mirror.Endpoint }),
	keyMirrorPrefix:     stringSetting(func(s *domain.AppSettings) *string { return &s.Mirror.Prefix }),
	keyReadmeAuthorship: stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Authorship }),
	keyReadmeContact:    stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Contact }),
	keyReadmeLanguage:   stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Language }),
	keyReadmeSex:        stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Sex }),
	keyReadmeLifeStage:  stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.LifeStage }),
	keyReadmeTechnique:  stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Technique }),
	keyReadmeLicence:    stringSetting(func(s *domain.AppSettings) *string { return &s.Readme.Licence }),
	keyLastArtifact:     stringSetting(func(s *domain.AppSettings) *string { return &s.LastArtifact }),
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Keys that are missing or hold
// an unusable value keep their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	current := domain.DefaultAppSettings()
	for key, st := range settings {
		raw, ok := s.configStore.Get(key)
		if !ok {
			continue
		}
		value := fmt.Sprint(raw)
		if value == "" {
			continue
		}
		_ = st.set(&current, value)
	}
	return &current, nil
}

// Save validates and persists application settings. An empty token does not
// erase a stored one.
func (s *SettingsService) Save(current *domain.AppSettings) error {
	if err := validateSettings(current); err != nil {
		return err
	}
	for _, key := range s.Keys() {
		value := settings[key].get(current)
		if key == keyDataverseToken && value == "" {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set updates a single setting after validating the result.
func (s *SettingsService) Set(key, value string) error {
	st, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (valid: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	current, err := s.Get()
	if err != nil {
		return err
	}
	if err := st.set(current, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := validateSettings(current); err != nil {
		return err
	}

	if err := s.configStore.Set(key, st.get(current)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys accepted by Set, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	current, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(current)
}

// SetLastArtifact persists the most recent mesh artifact path.
func (s *SettingsService) SetLastArtifact(path string) error {
	if err := s.configStore.Set(keyLastArtifact, path); err != nil {
		return fmt.Errorf("save %s: %w", keyLastArtifact, err)
	}
	return nil
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func validateSettings(current *domain.AppSettings) error {
	if err := validate.Struct(current); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, formatValidationError(err))
	}
	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
