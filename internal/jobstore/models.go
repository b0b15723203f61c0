package jobstore

import "time"

// Status represents the lifecycle of a batch job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one batch invocation over a list of videos.
type Job struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Succeeded int
	Failed    int
}

// Outcome records the result of processing one video within a job.
type Outcome struct {
	ID        int64
	JobID     string
	Source    string
	Success   bool
	Error     string
	CueCount  int
	CreatedAt time.Time
}
