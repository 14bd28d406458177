package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var renameCmd = &cobra.Command{
	Use:   "rename <folder> <old> <new>",
	Short: "Rename a model tree",
	Long: `Replaces <old> with <new> in the names of every file and folder below
<folder>, then in the folder's own name. References inside .obj and .mtl files
are updated to match. Hidden entries are skipped.`,
	Args: cobra.ExactArgs(3),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	if renamerService == nil {
		return errors.New("rename service not configured")
	}

	op := domain.RenameOperation{Root: args[0], OldToken: args[1], NewToken: args[2]}

	var log []domain.OperationLogEntry
	err := runJob(cmd.Context(), domain.JobRename, op.Root, func() (string, error) {
		var err error
		log, err = renamerService.Rename(op)
		return logDetail(log), err
	})
	if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	printLog(cmd, log)
	return nil
}

// logDetail summarises a batch log for the job history.
func logDetail(log []domain.OperationLogEntry) string {
	return fmt.Sprintf("%d operations, %d failed", len(log), domain.CountFailures(log))
}
