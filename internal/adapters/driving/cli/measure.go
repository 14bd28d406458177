package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Wait for a calibration measurement from the mesh viewer",
	Long: `Waits until the mesh viewer has written a measurement and prints it.
The value can be passed to "scanprep scale --uncalibrated".`,
	Args: cobra.NoArgs,
	RunE: runMeasure,
}

func init() {
	measureCmd.Flags().Duration("timeout", 2*time.Minute, "how long to wait")
	rootCmd.AddCommand(measureCmd)
}

func runMeasure(cmd *cobra.Command, _ []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	_, err := awaitMeasurement(cmd, timeout)
	return err
}
