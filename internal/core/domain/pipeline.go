package domain

import "sync/atomic"

// PipelineContext is threaded between pipeline stages. It carries the most
// recently produced mesh artifact so downstream steps can default to it.
// Writers replace the value atomically; the last write wins.
type PipelineContext struct {
	lastArtifact atomic.Pointer[string]
}

// NewPipelineContext creates a context, optionally seeded with a previous
// artifact path.
func NewPipelineContext(lastArtifact string) *PipelineContext {
	pc := &PipelineContext{}
	if lastArtifact != "" {
		pc.SetLastArtifact(lastArtifact)
	}
	return pc
}

// SetLastArtifact records path as the latest artifact.
func (pc *PipelineContext) SetLastArtifact(path string) {
	pc.lastArtifact.Store(&path)
}

// LastArtifact returns the latest artifact path, or "" if none was produced.
func (pc *PipelineContext) LastArtifact() string {
	if pc == nil {
		return ""
	}
	p := pc.lastArtifact.Load()
	if p == nil {
		return ""
	}
	return *p
}
