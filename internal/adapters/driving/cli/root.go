// Package cli implements the scanprep command line.
//
// Commands are package-level cobra commands registered in init functions.
// Services are injected by the binary through SetServices before Execute is
// called; a command whose service is missing fails with a clear error.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driving"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services holds the driving ports used by the commands.
type Services struct {
	Scaler      driving.GeometryScaler
	Renamer     driving.ModelRenamer
	Structure   driving.StructureBuilder
	Metadata    driving.MetadataWriter
	Packager    driving.ArchivePackager
	Uploader    driving.DatasetUploader
	Capture     driving.CaptureService
	Export      driving.ExportService
	Measurement driving.MeasurementService
	BoneFolder  driving.BoneFolderService
	History     driving.HistoryService
	Settings    driving.SettingsService

	// Pipeline carries the most recent artifact between commands.
	Pipeline *domain.PipelineContext

	// LoadRecord reads a metadata record file for the readme command.
	LoadRecord func(path string) (*domain.MetadataRecord, error)
}

var (
	scalerService      driving.GeometryScaler
	renamerService     driving.ModelRenamer
	structureService   driving.StructureBuilder
	metadataService    driving.MetadataWriter
	packagerService    driving.ArchivePackager
	uploaderService    driving.DatasetUploader
	captureService     driving.CaptureService
	exportService      driving.ExportService
	measurementService driving.MeasurementService
	boneFolderService  driving.BoneFolderService
	historyService     driving.HistoryService
	settingsService    driving.SettingsService
	pipelineContext    *domain.PipelineContext
	loadRecord         func(path string) (*domain.MetadataRecord, error)
)

var rootCmd = &cobra.Command{
	Use:   "scanprep",
	Short: "Prepare photogrammetry scans for publication",
	Long: `scanprep turns raw photogrammetry output into a publishable dataset.

It rescales meshes to real-world units, renames model trees, builds folder
structures, writes readme documents, packages archives and uploads them to a
Dataverse repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print each pipeline step to stderr")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	scalerService = s.Scaler
	renamerService = s.Renamer
	structureService = s.Structure
	metadataService = s.Metadata
	packagerService = s.Packager
	uploaderService = s.Uploader
	captureService = s.Capture
	exportService = s.Export
	measurementService = s.Measurement
	boneFolderService = s.BoneFolder
	historyService = s.History
	settingsService = s.Settings
	pipelineContext = s.Pipeline
	loadRecord = s.LoadRecord
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Failures are printed as a short message.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		rootCmd.PrintErrln(styles.Error.Render("Error: " + domain.UserMessage(err)))
		logger.Debug("%v", err)
	}
	return err
}

// runJob records fn as a job in the history, when one is configured.
// fn returns the detail stored with a successful job.
func runJob(ctx context.Context, kind domain.JobKind, target string, fn func() (string, error)) error {
	var job *domain.JobRecord
	if historyService != nil {
		j, err := historyService.Start(ctx, kind, target)
		if err != nil {
			logger.Warn("recording %s job: %v", kind, err)
		}
		job = j
	}

	detail, err := fn()

	if historyService != nil {
		// A cancelled run is still recorded as failed.
		if ferr := historyService.Finish(context.WithoutCancel(ctx), job, detail, err); ferr != nil {
			logger.Warn("recording %s job: %v", kind, ferr)
		}
	}
	return err
}

// rememberArtifact makes path the default mesh for later invocations.
func rememberArtifact(path string) {
	if pipelineContext != nil {
		pipelineContext.SetLastArtifact(path)
	}
	if settingsService != nil {
		if err := settingsService.SetLastArtifact(path); err != nil {
			logger.Warn("saving last artifact: %v", err)
		}
	}
}
