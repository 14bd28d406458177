package domain

import (
	"fmt"
	"strings"
)

// MetadataKey names a recognised readme field.
type MetadataKey string

// Recognised metadata keys, in document order.
const (
	KeyDatasetTitle MetadataKey = "datasetTitle"
	KeyAuthorship   MetadataKey = "authorship"
	KeyContact      MetadataKey = "contact"
	KeyLanguage     MetadataKey = "language"
	KeySpecimen     MetadataKey = "specimen"
	KeySex          MetadataKey = "sex"
	KeyLifeStage    MetadataKey = "lifeStage"
	KeyScannedItems MetadataKey = "scannedItems"
	KeyTechnique    MetadataKey = "technique"
	KeyLicence      MetadataKey = "licence"
	KeyDOI          MetadataKey = "doi"
	KeyFileSize     MetadataKey = "fileSize"
	KeyNumFiles     MetadataKey = "numFiles"
)

// metadataFields fixes the order and labels of the general section.
var metadataFields = []struct {
	key   MetadataKey
	label string
}{
	{KeyDatasetTitle, "Dataset Title"},
	{KeyAuthorship, "Authorship"},
	{KeyContact, "Contact"},
	{KeyLanguage, "Language"},
	{KeySpecimen, "Specimen"},
	{KeySex, "Sex"},
	{KeyLifeStage, "Life Stage"},
	{KeyScannedItems, "Number of Scanned Items"},
	{KeyTechnique, "Technique Used"},
	{KeyLicence, "Licence"},
	{KeyDOI, "DOI"},
	{KeyFileSize, "Folder Size (Go)"},
	{KeyNumFiles, "Number of Files"},
}

// MetadataKeys returns every recognised key in document order.
func MetadataKeys() []MetadataKey {
	keys := make([]MetadataKey, len(metadataFields))
	for i, f := range metadataFields {
		keys[i] = f.key
	}
	return keys
}

// IsValid returns true if the key is recognised.
func (k MetadataKey) IsValid() bool {
	for _, f := range metadataFields {
		if f.key == k {
			return true
		}
	}
	return false
}

// DefaultStructureText describes the layout produced by a capture export.
const DefaultStructureText = `Item_name
    Item_name.OBJ
    Item_name.MTL
        baked_mesh_fileID_tex0.png
        baked_mesh_fileID_norm0.png
        baked_mesh_fileID_ao0.png
        baked_mesh_fileID_roughness0.png
        baked_mesh_fileID_disp0.exr`

// MetadataRecord holds the readme fields plus two free-text sections.
type MetadataRecord struct {
	Fields    map[MetadataKey]string
	Structure string
	Comments  string
}

// NewMetadataRecord returns an empty record.
func NewMetadataRecord() *MetadataRecord {
	return &MetadataRecord{Fields: make(map[MetadataKey]string)}
}

// Get returns the value for key, or "" when missing.
func (r *MetadataRecord) Get(key MetadataKey) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[key]
}

// Set stores value under key. Unknown keys are rejected.
func (r *MetadataRecord) Set(key MetadataKey, value string) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: unknown metadata key %q", ErrInvalidInput, key)
	}
	if r.Fields == nil {
		r.Fields = make(map[MetadataKey]string)
	}
	r.Fields[key] = value
	return nil
}

// MergeDefaults fills missing or empty fields from defaults.
func (r *MetadataRecord) MergeDefaults(defaults map[MetadataKey]string) {
	if r.Fields == nil {
		r.Fields = make(map[MetadataKey]string)
	}
	for k, v := range defaults {
		if r.Fields[k] == "" && v != "" {
			r.Fields[k] = v
		}
	}
}

// Render produces the three-section readme document.
func (r *MetadataRecord) Render() string {
	var b strings.Builder
	b.WriteString("GENERAL INFORMATION\n-------------------\n")
	for _, f := range metadataFields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, r.Get(f.key))
	}
	b.WriteString("\nSTRUCTURE\n---------\n")
	if r != nil {
		b.WriteString(r.Structure)
	}
	b.WriteString("\n")
	b.WriteString("\nCOMMENTS\n--------\n")
	if r != nil {
		b.WriteString(r.Comments)
	}
	return b.String()
}

// DatasetStats summarises the files of a dataset folder.
type DatasetStats struct {
	TotalBytes int64
	FileCount  int
}

// SizeGigabytes formats the total size in gigabytes with two decimals.
func (s DatasetStats) SizeGigabytes() string {
	return fmt.Sprintf("%.2f", float64(s.TotalBytes)/1e9)
}

// Apply writes the stats into the fileSize and numFiles fields.
func (s DatasetStats) Apply(r *MetadataRecord) {
	if r.Fields == nil {
		r.Fields = make(map[MetadataKey]string)
	}
	r.Fields[KeyFileSize] = s.SizeGigabytes()
	r.Fields[KeyNumFiles] = fmt.Sprintf("%d", s.FileCount)
}
