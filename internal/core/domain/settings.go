package domain

// Default values for settings that are not yet configured.
const (
	DefaultArchiveName     = "archive.zip"
	DefaultOntologyBaseURL = "https://www.ebi.ac.uk/ols"
	DefaultJPEGQuality     = 80
)

// DataverseSettings holds the dataset repository address and API token.
type DataverseSettings struct {
	Address string `validate:"omitempty,url"`
	Token   string
}

// IsConfigured returns true when both address and token are set.
func (s DataverseSettings) IsConfigured() bool {
	return s.Address != "" && s.Token != ""
}

// ArchiveSettings controls the packager.
type ArchiveSettings struct {
	// DefaultName is used when no archive name is given; its extension picks
	// the format.
	DefaultName string `validate:"required"`
}

// CaptureSettings configures the external reconstruction engine.
type CaptureSettings struct {
	// Command is the engine command line, split with shell quoting rules.
	Command     string
	JPEGQuality int `validate:"gte=1,lte=100"`

	// MeasurementFile is where the mesh viewer writes its calibration
	// measurement. Empty selects ~/.scanprep/measurement.txt.
	MeasurementFile string
}

// OntologySettings configures the anatomy term lookup service.
type OntologySettings struct {
	BaseURL string `validate:"required,url"`
}

// MirrorSettings configures the optional S3-compatible archive mirror.
type MirrorSettings struct {
	Bucket   string
	Region   string
	Endpoint string `validate:"omitempty,url"`
	Prefix   string
}

// IsConfigured returns true when a bucket is set.
func (s MirrorSettings) IsConfigured() bool {
	return s.Bucket != ""
}

// ReadmeDefaults pre-fill metadata fields left empty by the user.
type ReadmeDefaults struct {
	Authorship string
	Contact    string `validate:"omitempty,email"`
	Language   string
	Sex        string
	LifeStage  string
	Technique  string
	Licence    string
}

// Fields returns the defaults keyed by metadata key.
func (d ReadmeDefaults) Fields() map[MetadataKey]string {
	return map[MetadataKey]string{
		KeyAuthorship: d.Authorship,
		KeyContact:    d.Contact,
		KeyLanguage:   d.Language,
		KeySex:        d.Sex,
		KeyLifeStage:  d.LifeStage,
		KeyTechnique:  d.Technique,
		KeyLicence:    d.Licence,
	}
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Dataverse DataverseSettings
	Archive   ArchiveSettings
	Capture   CaptureSettings
	Ontology  OntologySettings
	Mirror    MirrorSettings
	Readme    ReadmeDefaults

	// LastArtifact is the most recent mesh produced by any invocation.
	LastArtifact string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Archive: ArchiveSettings{
			DefaultName: DefaultArchiveName,
		},
		Capture: CaptureSettings{
			JPEGQuality: DefaultJPEGQuality,
		},
		Ontology: OntologySettings{
			BaseURL: DefaultOntologyBaseURL,
		},
		Readme: ReadmeDefaults{
			Language:  "ENG",
			Sex:       "male",
			LifeStage: "adult",
			Technique: "photogrammetry",
			Licence:   "CC BY-NC 4.0",
		},
	}
}
