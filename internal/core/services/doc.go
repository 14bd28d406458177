// Package services implements the driving port interfaces.
// Services contain the dataset preparation logic and orchestrate
// calls to driven ports (adapters).
//
// Services work on the local file system directly; everything that leaves
// the machine (repository uploads, object storage, ontology lookups, the
// capture engine) goes through a driven port.
package services
