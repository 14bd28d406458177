package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the repository, archive, capture, ontology, mirror and
readme default settings.

Settings are stored in a TOML file; "scanprep settings path" prints its
location.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by key, e.g.

  scanprep settings set dataverse.address https://dataverse.example.org
  scanprep settings set archive.default_name dataset.tar.zst

Use "scanprep settings keys" to list the accepted keys, and
"scanprep settings token" to enter the API token without echo.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Enter the Dataverse API token",
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE:  runSettingsPath,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(styles.Title.Render("Current Settings"))
	cmd.Println()

	cmd.Println("[Dataverse]")
	cmd.Printf("  Address: %s\n", valueOrUnset(settings.Dataverse.Address))
	if settings.Dataverse.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.Dataverse.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Archive]")
	cmd.Printf("  Default name: %s\n", settings.Archive.DefaultName)
	cmd.Println()

	cmd.Println("[Capture]")
	cmd.Printf("  Command: %s\n", valueOrUnset(settings.Capture.Command))
	cmd.Printf("  JPEG quality: %d\n", settings.Capture.JPEGQuality)
	cmd.Printf("  Measurement file: %s\n", valueOrUnset(settings.Capture.MeasurementFile))
	cmd.Println()

	cmd.Println("[Ontology]")
	cmd.Printf("  Base URL: %s\n", settings.Ontology.BaseURL)
	cmd.Println()

	cmd.Println("[Mirror]")
	if settings.Mirror.IsConfigured() {
		cmd.Printf("  Bucket: %s\n", settings.Mirror.Bucket)
		cmd.Printf("  Region: %s\n", valueOrUnset(settings.Mirror.Region))
		cmd.Printf("  Endpoint: %s\n", valueOrUnset(settings.Mirror.Endpoint))
		cmd.Printf("  Prefix: %s\n", valueOrUnset(settings.Mirror.Prefix))
	} else {
		cmd.Println("  Status: not configured")
	}
	cmd.Println()

	cmd.Println("[Readme defaults]")
	for _, key := range domain.MetadataKeys() {
		if v := settings.Readme.Fields()[key]; v != "" {
			cmd.Printf("  %s: %s\n", key, v)
		}
	}
	cmd.Println()

	if settings.LastArtifact != "" {
		cmd.Printf("Last artifact: %s\n", settings.LastArtifact)
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(domain.UserMessage(err)))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("%s updated", args[0])))
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Dataverse API token: ")
	token := readSecret(cmd)
	cmd.Println()
	if token == "" {
		return fmt.Errorf("%w: token is empty", domain.ErrInvalidInput)
	}

	if err := settingsService.Set("dataverse.token", token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	cmd.Println(styles.Success.Render("Token saved: " + maskToken(token)))
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.ConfigPath())
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// readSecret reads a line without echo when input is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(cmd *cobra.Command) string {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
