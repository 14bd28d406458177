package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

// Theme defines the colour palette for command output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
	}
}

var styles = NewStyles(nil)

// progressWidth is the width of progress bars in cells.
const progressWidth = 40

func newProgressBar() progress.Model {
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth))
}

// printProgress redraws a progress line in place.
func printProgress(cmd *cobra.Command, bar progress.Model, label string, f float64) {
	fmt.Fprintf(cmd.OutOrStdout(), "\r%s %s", label, bar.ViewAs(f))
}

// printLog prints one line per entry and a summary.
func printLog(cmd *cobra.Command, log []domain.OperationLogEntry) {
	for _, e := range log {
		if e.Success() {
			cmd.Println(styles.Muted.Render(e.String()))
		} else {
			cmd.Println(styles.Error.Render(e.String()))
		}
	}
	cmd.Println(logSummary(log))
}

func logSummary(log []domain.OperationLogEntry) string {
	failed := domain.CountFailures(log)
	summary := fmt.Sprintf("%d operations, %d failed", len(log), failed)
	if failed > 0 {
		return styles.Warning.Render(summary)
	}
	return styles.Success.Render(summary)
}
