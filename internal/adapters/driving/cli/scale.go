package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [mesh.obj]",
	Short: "Rescale a mesh to real-world units",
	Long: `Multiplies vertex and normal coordinates of an OBJ mesh by real/uncalibrated.

The uncalibrated length is the distance measured on the model; real is the
same distance measured on the specimen. Without --overwrite the result is
written next to the mesh as scaled_<name>.

When no mesh is given, the most recently produced mesh is used. With
--from-viewer the uncalibrated length is read from the mesh viewer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScale,
}

func init() {
	scaleCmd.Flags().Float64("uncalibrated", 0, "length measured on the model")
	scaleCmd.Flags().Float64("real", 0, "real-world length")
	scaleCmd.Flags().Bool("overwrite", false, "replace the mesh instead of writing scaled_<name>")
	scaleCmd.Flags().Bool("from-viewer", false, "wait for the uncalibrated length from the mesh viewer")
	scaleCmd.Flags().Duration("timeout", 2*time.Minute, "how long to wait for the viewer")
	rootCmd.AddCommand(scaleCmd)
}

func runScale(cmd *cobra.Command, args []string) error {
	if scalerService == nil {
		return errors.New("scale service not configured")
	}

	path := pipelineContext.LastArtifact()
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("%w: no mesh given and no previous artifact", domain.ErrInvalidInput)
	}

	realLength, _ := cmd.Flags().GetFloat64("real")
	uncalibrated, _ := cmd.Flags().GetFloat64("uncalibrated")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	fromViewer, _ := cmd.Flags().GetBool("from-viewer")

	if fromViewer {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		v, err := awaitMeasurement(cmd, timeout)
		if err != nil {
			return err
		}
		uncalibrated = v
	}

	var output string
	err := runJob(cmd.Context(), domain.JobScale, path, func() (string, error) {
		var err error
		output, err = scalerService.Scale(path, uncalibrated, realLength, overwrite)
		return output, err
	})
	if err != nil {
		return fmt.Errorf("scale failed: %w", err)
	}

	rememberArtifact(output)
	cmd.Println(styles.Success.Render(fmt.Sprintf("Scaled mesh written to %s", output)))
	return nil
}

// awaitMeasurement waits for the viewer measurement.
func awaitMeasurement(cmd *cobra.Command, timeout time.Duration) (float64, error) {
	if measurementService == nil {
		return 0, errors.New("measurement service not configured")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cmd.Println(styles.Muted.Render("Waiting for a measurement from the viewer..."))
	v, err := measurementService.Await(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("reading measurement: %w", err)
	}
	cmd.Printf("Measurement: %s\n", domain.FormatCoordinate(v))
	return v, nil
}
