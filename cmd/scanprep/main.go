// Command scanprep prepares photogrammetry scans for publication.
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/scanprep/internal/adapters/driven/archive"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/capture/command"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/dataverse"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/imaging"
	measurementfile "github.com/custodia-labs/scanprep/internal/adapters/driven/measurement/file"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/mirror/s3"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/ontology"
	"github.com/custodia-labs/scanprep/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scanprep/internal/adapters/driving/cli"
	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/core/services"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("opening settings: %v", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("reading settings: %v", err)
		return 1
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Error("opening history: %v", err)
		return 1
	}
	defer store.Close()

	pipeline := domain.NewPipelineContext(settings.LastArtifact)
	export := services.NewExportService(imaging.NewTranscoder())

	var mirror driven.ArchiveMirror
	if settings.Mirror.IsConfigured() {
		m, err := s3.NewMirror(ctx, s3.Config{
			Bucket:   settings.Mirror.Bucket,
			Region:   settings.Mirror.Region,
			Endpoint: settings.Mirror.Endpoint,
		})
		if err != nil {
			logger.Warn("archive mirror disabled: %v", err)
		} else {
			mirror = m
		}
	}

	var engine driven.CaptureEngine
	if settings.Capture.Command != "" {
		e, err := command.NewEngine(settings.Capture.Command)
		if err != nil {
			logger.Warn("capture engine disabled: %v", err)
		} else {
			engine = e
		}
	}

	svc := &cli.Services{
		Scaler:    services.NewScalerService(pipeline),
		Renamer:   services.NewRenamerService(),
		Structure: services.NewStructureService(),
		Metadata:  services.NewMetadataService(),
		Packager: services.NewPackagerService("", uuid.NewString,
			archive.NewZipArchiver(0),
			archive.NewTarZstdArchiver(zstd.SpeedDefault),
		),
		Uploader: services.NewUploaderService(
			dataverse.NewClient(dataverse.Config{UserAgent: "scanprep/" + version}),
			mirror, settings.Mirror.Prefix, uuid.NewString,
		),
		Export: export,
		BoneFolder: services.NewBoneFolderService(ontology.NewOLSClient(ontology.Config{
			BaseURL: settings.Ontology.BaseURL,
		})),
		History:    services.NewHistoryService(store.HistoryStore(), uuid.NewString),
		Settings:   settingsService,
		Pipeline:   pipeline,
		LoadRecord: file.LoadMetadataRecord,
	}
	if engine != nil {
		svc.Capture = services.NewCaptureService(engine, export, pipeline)
	}

	source, err := openMeasurementSource(settings.Capture.MeasurementFile)
	if err != nil {
		logger.Warn("mesh viewer measurements disabled: %v", err)
	} else {
		defer source.Close()
		svc.Measurement = services.NewMeasurementService(source)
	}

	cli.SetVersion(version)
	cli.SetServices(svc)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// openMeasurementSource watches the viewer's measurement file, creating its
// folder when needed.
func openMeasurementSource(path string) (*measurementfile.Source, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".scanprep", "measurement.txt")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return measurementfile.NewSource(path)
}
