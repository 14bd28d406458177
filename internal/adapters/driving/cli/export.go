package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <export-folder>",
	Short: "Remove export by-products",
	Long: `Deletes intermediate files from a capture export folder.
USDA files are removed by default; texture maps only when asked.`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanup,
}

var texturesCmd = &cobra.Command{
	Use:   "textures <export-folder>",
	Short: "Convert textures to JPEG",
	Long: `Re-encodes PNG, TIFF, BMP and JPEG textures as JPEG and updates the
folder's material file to reference the new names.`,
	Args: cobra.ExactArgs(1),
	RunE: runTextures,
}

func init() {
	addCleanupFlags(cleanupCmd)
	texturesCmd.Flags().Int("quality", 0, "JPEG quality 1-100 (default from settings)")
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(texturesCmd)
}

func addCleanupFlags(cmd *cobra.Command) {
	defaults := domain.DefaultCleanupOptions()
	cmd.Flags().Bool("remove-usda", defaults.USDA, "remove .usda files")
	cmd.Flags().Bool("remove-ao", defaults.AO, "remove ambient occlusion maps")
	cmd.Flags().Bool("remove-disp", defaults.Displacement, "remove displacement maps")
	cmd.Flags().Bool("remove-normal", defaults.Normal, "remove normal maps")
	cmd.Flags().Bool("remove-roughness", defaults.Roughness, "remove roughness maps")
}

func cleanupOptions(cmd *cobra.Command) domain.CleanupOptions {
	var opts domain.CleanupOptions
	opts.USDA, _ = cmd.Flags().GetBool("remove-usda")
	opts.AO, _ = cmd.Flags().GetBool("remove-ao")
	opts.Displacement, _ = cmd.Flags().GetBool("remove-disp")
	opts.Normal, _ = cmd.Flags().GetBool("remove-normal")
	opts.Roughness, _ = cmd.Flags().GetBool("remove-roughness")
	return opts
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	folder := args[0]
	opts := cleanupOptions(cmd)

	var log []domain.OperationLogEntry
	_ = runJob(cmd.Context(), domain.JobCleanup, folder, func() (string, error) {
		log = exportService.Cleanup(folder, opts)
		return logDetail(log), nil
	})

	printLog(cmd, log)
	return nil
}

func runTextures(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	folder := args[0]

	quality, _ := cmd.Flags().GetInt("quality")
	if quality == 0 {
		quality = defaultJPEGQuality()
	}

	var log []domain.OperationLogEntry
	err := runJob(cmd.Context(), domain.JobCleanup, folder, func() (string, error) {
		var err error
		log, err = exportService.CompressTextures(folder, quality)
		return logDetail(log), err
	})
	if err != nil {
		return fmt.Errorf("texture compression failed: %w", err)
	}

	printLog(cmd, log)
	return nil
}
