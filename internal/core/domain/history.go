package domain

import "time"

// JobKind identifies which pipeline stage a job ran.
type JobKind string

// Pipeline stages recorded in the job history.
const (
	JobScale     JobKind = "scale"
	JobRename    JobKind = "rename"
	JobStructure JobKind = "structure"
	JobReadme    JobKind = "readme"
	JobPack      JobKind = "pack"
	JobUpload    JobKind = "upload"
	JobMirror    JobKind = "mirror"
	JobCapture   JobKind = "capture"
	JobCleanup   JobKind = "cleanup"
	JobBone      JobKind = "bone"
)

// JobStatus is the outcome of a job.
type JobStatus string

// Job outcomes.
const (
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// JobRecord is one entry in the job history.
type JobRecord struct {
	ID         string
	Kind       JobKind
	Target     string
	Status     JobStatus
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the job ran, or zero while it is running.
func (j JobRecord) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}
