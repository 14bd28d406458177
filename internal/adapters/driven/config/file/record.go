package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// Free-text sections of a record file.
const (
	recordStructureKey = "structure"
	recordCommentsKey  = "comments"
)

// LoadMetadataRecord reads readme fields from a TOML file such as:
//
//	datasetTitle = "Ribs of Bos taurus"
//	scannedItems = 12
//	structure = """
//	Rib_I
//	    model"""
//
// Scalar values are converted to text. Unknown keys are rejected.
func LoadMetadataRecord(path string) (*domain.MetadataRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	record := domain.NewMetadataRecord()
	for _, key := range keys {
		value, err := scalarText(raw[key])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		switch key {
		case recordStructureKey:
			record.Structure = value
		case recordCommentsKey:
			record.Comments = value
		default:
			if err := record.Set(domain.MetadataKey(key), value); err != nil {
				return nil, err
			}
		}
	}
	return record, nil
}

func scalarText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
