package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var boneCmd = &cobra.Command{
	Use:   "bone",
	Short: "Create specimen folders named after anatomy terms",
}

var boneSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the UBERON ontology",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBoneSearch,
}

var boneCreateCmd = &cobra.Command{
	Use:   "create <parent-folder>",
	Short: "Create a folder for an anatomy term",
	Long: `Creates <parent-folder>/<id>_<label>, e.g. UBERON0000981_femur, with an
optional photos sub-folder. Files given with --import are copied into the
photos folder (or the term folder without --photos).

Example:
  scanprep bone create ./specimens --id UBERON:0000981 --label femur --import a.jpg,b.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runBoneCreate,
}

func init() {
	boneCreateCmd.Flags().String("id", "", "OBO identifier, e.g. UBERON:0000981")
	boneCreateCmd.Flags().String("label", "", "term label, e.g. femur")
	boneCreateCmd.Flags().Bool("photos", true, "create a photos sub-folder")
	boneCreateCmd.Flags().StringSlice("import", nil, "photos to copy into the new folder")
	_ = boneCreateCmd.MarkFlagRequired("id")
	_ = boneCreateCmd.MarkFlagRequired("label")
	boneCmd.AddCommand(boneSearchCmd)
	boneCmd.AddCommand(boneCreateCmd)
	rootCmd.AddCommand(boneCmd)
}

func runBoneSearch(cmd *cobra.Command, args []string) error {
	if boneFolderService == nil {
		return errors.New("bone folder service not configured")
	}

	terms, err := boneFolderService.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(terms) == 0 {
		cmd.Println("No matching terms.")
		return nil
	}

	for _, t := range terms {
		cmd.Printf("%-16s %s  %s\n", t.OBOID, t.Label, styles.Muted.Render(t.FolderName()))
	}
	return nil
}

func runBoneCreate(cmd *cobra.Command, args []string) error {
	if boneFolderService == nil {
		return errors.New("bone folder service not configured")
	}

	var term domain.AnatomyTerm
	term.OBOID, _ = cmd.Flags().GetString("id")
	term.Label, _ = cmd.Flags().GetString("label")
	photos, _ := cmd.Flags().GetBool("photos")
	imports, _ := cmd.Flags().GetStringSlice("import")

	var (
		folder string
		log    []domain.OperationLogEntry
	)
	err := runJob(cmd.Context(), domain.JobBone, term.FolderName(), func() (string, error) {
		var err error
		folder, err = boneFolderService.CreateFolder(args[0], term, photos)
		if err != nil {
			return "", err
		}
		if len(imports) > 0 {
			dest := folder
			if photos {
				dest = filepath.Join(folder, "photos")
			}
			log = boneFolderService.ImportPhotos(dest, imports)
		}
		return folder, nil
	})
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	cmd.Println(styles.Success.Render("Folder created: " + folder))
	if len(log) > 0 {
		printLog(cmd, log)
	}
	return nil
}
