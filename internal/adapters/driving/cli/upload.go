package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to a Dataverse dataset",
	Long: `Adds a file to a Dataverse dataset in a single request.

The repository address and API token come from settings unless given as
flags. The dataset identifier may be a DOI ("doi:10.x/y") or its resolver
form ("https://doi.org/10.x/y"). Press Ctrl+C to abandon the upload.

With --mirror the file is also copied to the configured S3 bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror <file>",
	Short: "Copy a file to the S3 archive mirror",
	Args:  cobra.ExactArgs(1),
	RunE:  runMirror,
}

func init() {
	uploadCmd.Flags().StringP("dataset", "d", "", "dataset persistent identifier")
	uploadCmd.Flags().String("address", "", "repository address (default from settings)")
	uploadCmd.Flags().String("token", "", "API token (default from settings)")
	uploadCmd.Flags().Bool("mirror", false, "also copy the file to the S3 mirror")
	_ = uploadCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(mirrorCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploaderService == nil {
		return errors.New("upload service not configured")
	}

	req := domain.UploadRequest{FilePath: args[0]}
	req.DatasetID, _ = cmd.Flags().GetString("dataset")
	req.BaseAddress, _ = cmd.Flags().GetString("address")
	req.Token, _ = cmd.Flags().GetString("token")
	if settingsService != nil && (req.BaseAddress == "" || req.Token == "") {
		current, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if req.BaseAddress == "" {
			req.BaseAddress = current.Dataverse.Address
		}
		if req.Token == "" {
			req.Token = current.Dataverse.Token
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var body string
	err := runJob(ctx, domain.JobUpload, req.FilePath, func() (string, error) {
		session, err := uploaderService.Start(ctx, req)
		if err != nil {
			return "", err
		}

		label := req.FilePath
		if info, err := os.Stat(req.FilePath); err == nil {
			label = fmt.Sprintf("%s (%s)", info.Name(), humanize.Bytes(uint64(info.Size())))
		}
		bar := newProgressBar()
		for f := range session.Progress() {
			printProgress(cmd, bar, label, f)
		}
		cmd.Println()

		body, err = session.Wait()
		return session.Endpoint, err
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Println(styles.Success.Render("Upload complete"))
	if body != "" {
		cmd.Println(styles.Muted.Render(body))
	}

	if mirror, _ := cmd.Flags().GetBool("mirror"); mirror {
		return mirrorFile(cmd, req.FilePath)
	}
	return nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	if uploaderService == nil {
		return errors.New("upload service not configured")
	}
	return mirrorFile(cmd, args[0])
}

func mirrorFile(cmd *cobra.Command, path string) error {
	var location string
	err := runJob(cmd.Context(), domain.JobMirror, path, func() (string, error) {
		var err error
		location, err = uploaderService.Mirror(cmd.Context(), path)
		return location, err
	})
	if err != nil {
		return fmt.Errorf("mirror failed: %w", err)
	}
	cmd.Println(styles.Success.Render("Mirrored to " + location))
	return nil
}
