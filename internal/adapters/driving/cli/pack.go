package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/logger"
)

var packCmd = &cobra.Command{
	Use:   "pack <source>...",
	Short: "Bundle files and folders into an archive",
	Long: `Copies the sources into a fresh working folder and archives them.
The archive format follows the name's extension (.zip or .tar.zst).
Sources are never modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringP("name", "n", "", "archive name (default from settings)")
	packCmd.Flags().StringP("output", "o", ".", "folder that receives the archive")
	packCmd.Flags().Bool("force", false, "replace an existing archive")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	if packagerService == nil {
		return errors.New("packager service not configured")
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = domain.DefaultArchiveName
		if settingsService != nil {
			if current, err := settingsService.Get(); err == nil && current.Archive.DefaultName != "" {
				name = current.Archive.DefaultName
			}
		}
	}
	outDir, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	dest := filepath.Join(outDir, name)
	if _, err := os.Stat(dest); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to replace)", domain.ErrAlreadyExists, dest)
	}

	var size int64
	err := runJob(cmd.Context(), domain.JobPack, dest, func() (string, error) {
		archive, err := packagerService.Pack(cmd.Context(), args, name)
		if err != nil {
			return "", err
		}
		defer func() {
			if err := packagerService.Cleanup(archive); err != nil {
				logger.Warn("removing work folder: %v", err)
			}
		}()

		if err := moveFile(archive, dest); err != nil {
			return "", err
		}
		if info, err := os.Stat(dest); err == nil {
			size = info.Size()
		}
		return humanize.Bytes(uint64(size)), nil
	})
	if err != nil {
		return fmt.Errorf("pack failed: %w", err)
	}

	cmd.Println(styles.Success.Render(fmt.Sprintf("Archive written to %s (%s)", dest, humanize.Bytes(uint64(size)))))
	return nil
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}
