package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CaptureDetail is the reconstruction detail level requested from the engine.
type CaptureDetail string

// Available detail levels.
const (
	DetailPreview CaptureDetail = "preview"
	DetailReduced CaptureDetail = "reduced"
	DetailMedium  CaptureDetail = "medium"
	DetailFull    CaptureDetail = "full"
	DetailRaw     CaptureDetail = "raw"
)

// IsValid returns true if the detail level is recognised.
func (d CaptureDetail) IsValid() bool {
	switch d {
	case DetailPreview, DetailReduced, DetailMedium, DetailFull, DetailRaw:
		return true
	default:
		return false
	}
}

// SampleOrdering tells the engine whether photos were taken in sequence.
type SampleOrdering string

// Available sample orderings.
const (
	OrderingUnordered  SampleOrdering = "unordered"
	OrderingSequential SampleOrdering = "sequential"
)

// IsValid returns true if the ordering is recognised.
func (o SampleOrdering) IsValid() bool {
	return o == OrderingUnordered || o == OrderingSequential
}

// FeatureSensitivity controls landmark detection effort.
type FeatureSensitivity string

// Available feature sensitivities.
const (
	SensitivityNormal FeatureSensitivity = "normal"
	SensitivityHigh   FeatureSensitivity = "high"
)

// IsValid returns true if the sensitivity is recognised.
func (f FeatureSensitivity) IsValid() bool {
	return f == SensitivityNormal || f == SensitivityHigh
}

// MaskMode decides whether the environment is kept around the object.
type MaskMode string

// Available mask modes.
const (
	MaskIsolate MaskMode = "isolate"
	MaskInclude MaskMode = "include"
)

// Description returns a human-readable description of the mode.
func (m MaskMode) Description() string {
	switch m {
	case MaskIsolate:
		return "Isolate from environment"
	case MaskInclude:
		return "Include environment"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the mask mode is recognised.
func (m MaskMode) IsValid() bool {
	return m == MaskIsolate || m == MaskInclude
}

// ExportFormat is the model file format produced by a capture.
type ExportFormat string

// Available export formats.
const (
	FormatOBJ  ExportFormat = "obj"
	FormatUSDZ ExportFormat = "usdz"
)

// ParseExportFormat accepts "obj" or "usdz" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case FormatOBJ, FormatUSDZ:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, s)
	}
}

// CleanupOptions selects which export by-products are removed.
type CleanupOptions struct {
	USDA         bool
	AO           bool
	Displacement bool
	Normal       bool
	Roughness    bool
}

// DefaultCleanupOptions removes only intermediate USDA files.
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{USDA: true}
}

// CaptureRequest is the configuration handed to the reconstruction engine.
type CaptureRequest struct {
	InputDir     string
	OutputDir    string
	FileName     string
	Detail       CaptureDetail
	Ordering     SampleOrdering
	Sensitivity  FeatureSensitivity
	Mask         MaskMode
	Format       ExportFormat
	Cleanup      CleanupOptions
	CompressJPEG bool

	// JPEGQuality is in [1,100].
	JPEGQuality int
}

// Validate checks the request before handing it to the engine.
func (r CaptureRequest) Validate() error {
	switch {
	case r.InputDir == "":
		return fmt.Errorf("%w: input folder is required", ErrInvalidInput)
	case r.OutputDir == "":
		return fmt.Errorf("%w: output folder is required", ErrInvalidInput)
	case r.FileName == "":
		return fmt.Errorf("%w: file name is required", ErrInvalidInput)
	case !r.Detail.IsValid():
		return fmt.Errorf("%w: unknown detail level %q", ErrInvalidInput, r.Detail)
	case !r.Ordering.IsValid():
		return fmt.Errorf("%w: unknown sample ordering %q", ErrInvalidInput, r.Ordering)
	case !r.Sensitivity.IsValid():
		return fmt.Errorf("%w: unknown feature sensitivity %q", ErrInvalidInput, r.Sensitivity)
	case !r.Mask.IsValid():
		return fmt.Errorf("%w: unknown mask mode %q", ErrInvalidInput, r.Mask)
	case r.Format != FormatOBJ && r.Format != FormatUSDZ:
		return fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, r.Format)
	case r.CompressJPEG && (r.JPEGQuality < 1 || r.JPEGQuality > 100):
		return fmt.Errorf("%w: jpeg quality must be between 1 and 100", ErrInvalidInput)
	}
	return nil
}

// ExportPath is where the engine writes its result: a folder named after the
// file for OBJ exports, or the .usdz file itself.
func (r CaptureRequest) ExportPath() string {
	if r.Format == FormatUSDZ {
		return filepath.Join(r.OutputDir, r.FileName+".usdz")
	}
	return filepath.Join(r.OutputDir, r.FileName)
}
