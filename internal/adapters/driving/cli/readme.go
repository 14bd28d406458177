package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var readmeCmd = &cobra.Command{
	Use:   "readme <dataset-folder>",
	Short: "Write the dataset readme",
	Long: `Writes a readme document describing a dataset folder.

Fields come from --record (a TOML file), then --field key=value, then the
readme defaults in settings for anything still empty. Folder size and file
count are computed from the dataset folder.

Recognised fields: datasetTitle, authorship, contact, language, specimen,
sex, lifeStage, scannedItems, technique, licence, doi.`,
	Args: cobra.ExactArgs(1),
	RunE: runReadme,
}

func init() {
	readmeCmd.Flags().String("record", "", "TOML file with readme fields")
	readmeCmd.Flags().StringArray("field", nil, "readme field as key=value (repeatable)")
	readmeCmd.Flags().StringP("output", "o", "", "output path (default <dataset-folder>/README.txt)")
	rootCmd.AddCommand(readmeCmd)
}

func runReadme(cmd *cobra.Command, args []string) error {
	if metadataService == nil {
		return errors.New("metadata service not configured")
	}
	dataset := args[0]

	record := domain.NewMetadataRecord()
	if file, _ := cmd.Flags().GetString("record"); file != "" {
		if loadRecord == nil {
			return errors.New("record loader not configured")
		}
		loaded, err := loadRecord(file)
		if err != nil {
			return fmt.Errorf("loading record: %w", err)
		}
		record = loaded
	}

	fields, _ := cmd.Flags().GetStringArray("field")
	for _, field := range fields {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("%w: field %q is not key=value", domain.ErrInvalidInput, field)
		}
		if err := record.Set(domain.MetadataKey(strings.TrimSpace(k)), v); err != nil {
			return err
		}
	}

	if settingsService != nil {
		if current, err := settingsService.Get(); err == nil {
			record.MergeDefaults(current.Readme.Fields())
		}
	}
	if record.Structure == "" {
		record.Structure = domain.DefaultStructureText
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = filepath.Join(dataset, "README.txt")
	}

	err := runJob(cmd.Context(), domain.JobReadme, output, func() (string, error) {
		stats, err := metadataService.ScanDataset(dataset)
		if err != nil {
			return "", err
		}
		stats.Apply(record)
		return fmt.Sprintf("%d files", stats.FileCount), metadataService.Write(record, output)
	})
	if err != nil {
		return fmt.Errorf("readme failed: %w", err)
	}

	cmd.Println(styles.Success.Render("Readme written to " + output))
	return nil
}
