package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var captureCmd = &cobra.Command{
	Use:   "capture <photos-folder> <output-folder>",
	Short: "Reconstruct a model from photos",
	Long: `Runs the photogrammetry engine configured in settings (capture.command)
on a folder of photos.

OBJ exports are written to <output-folder>/<name>/<name>.obj; intermediate
files are removed and textures can be compressed to JPEG. USDZ exports are
written to <output-folder>/<name>.usdz.

Detail levels: preview, reduced, medium, full, raw.`,
	Args: cobra.ExactArgs(2),
	RunE: runCapture,
}

func init() {
	f := captureCmd.Flags()
	f.StringP("name", "n", "", "model file name without extension")
	f.String("detail", string(domain.DetailMedium), "reconstruction detail")
	f.String("ordering", string(domain.OrderingUnordered), "sample ordering: unordered or sequential")
	f.String("sensitivity", string(domain.SensitivityNormal), "feature sensitivity: normal or high")
	f.String("mask", string(domain.MaskIsolate), "isolate the object or include the environment")
	f.String("format", string(domain.FormatOBJ), "export format: obj or usdz")
	f.Bool("compress", false, "convert textures to JPEG")
	f.Int("quality", 0, "JPEG quality 1-100 (default from settings)")
	addCleanupFlags(captureCmd)
	_ = captureCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	if captureService == nil {
		return errors.New("capture service not configured")
	}

	req, err := captureRequest(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progress := make(chan float64, 1)
	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		bar := newProgressBar()
		for f := range progress {
			printProgress(cmd, bar, "Reconstructing", f)
		}
	}()

	var model string
	err = runJob(ctx, domain.JobCapture, req.InputDir, func() (string, error) {
		var err error
		model, err = captureService.Capture(ctx, req, progress)
		return model, err
	})
	close(progress)
	<-drawn
	cmd.Println()
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	rememberArtifact(model)
	cmd.Println(styles.Success.Render("Model written to " + model))
	return nil
}

func captureRequest(cmd *cobra.Command, input, output string) (domain.CaptureRequest, error) {
	f := cmd.Flags()
	name, _ := f.GetString("name")
	detail, _ := f.GetString("detail")
	ordering, _ := f.GetString("ordering")
	sensitivity, _ := f.GetString("sensitivity")
	mask, _ := f.GetString("mask")
	formatName, _ := f.GetString("format")
	compress, _ := f.GetBool("compress")
	quality, _ := f.GetInt("quality")

	format, err := domain.ParseExportFormat(formatName)
	if err != nil {
		return domain.CaptureRequest{}, err
	}
	if quality == 0 {
		quality = defaultJPEGQuality()
	}

	return domain.CaptureRequest{
		InputDir:     input,
		OutputDir:    output,
		FileName:     name,
		Detail:       domain.CaptureDetail(detail),
		Ordering:     domain.SampleOrdering(ordering),
		Sensitivity:  domain.FeatureSensitivity(sensitivity),
		Mask:         domain.MaskMode(mask),
		Format:       format,
		Cleanup:      cleanupOptions(cmd),
		CompressJPEG: compress,
		JPEGQuality:  quality,
	}, nil
}

func defaultJPEGQuality() int {
	if settingsService != nil {
		if current, err := settingsService.Get(); err == nil && current.Capture.JPEGQuality > 0 {
			return current.Capture.JPEGQuality
		}
	}
	return domain.DefaultJPEGQuality
}
