package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent pipeline jobs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "number of jobs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	jobs, err := historyService.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(jobs) == 0 {
		cmd.Println("No jobs recorded yet.")
		return nil
	}

	for _, j := range jobs {
		cmd.Printf("%-14s %-9s %s %s\n",
			humanize.Time(j.StartedAt), j.Kind, statusText(j.Status), j.Target)
		if j.Status == domain.JobFailed && j.Detail != "" {
			cmd.Println("  " + styles.Muted.Render(j.Detail))
		}
	}
	return nil
}

// statusText pads before styling so columns stay aligned.
func statusText(s domain.JobStatus) string {
	text := fmt.Sprintf("%-9s", s)
	switch s {
	case domain.JobSucceeded:
		return styles.Success.Render(text)
	case domain.JobFailed:
		return styles.Error.Render(text)
	default:
		return styles.Warning.Render(text)
	}
}
