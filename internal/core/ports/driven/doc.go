// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - Archiver: Writes an archive from a prepared directory (zip, tar.zst)
//   - DatasetRepository: Pushes files to a dataset repository over HTTP
//   - ImageTranscoder: Re-encodes textures as JPEG
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Job history persistence. Without it, jobs are not recorded.
//   - ArchiveMirror: Copies archives to object storage.
//   - CaptureEngine: External reconstruction engine.
//   - MeasurementSource: Calibration measurement from the viewer.
//   - OntologyClient: Anatomy term lookup.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
