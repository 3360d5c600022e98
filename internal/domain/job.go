package domain

import "time"

// JobState enumerates the runner's lifecycle.
type JobState string

const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// JobRun is the ephemeral, process-local record of one end-to-end run.
// A fresh instance is created when a run starts; at most one is live at a
// time. The final snapshot is retained for health reporting.
type JobRun struct {
	ID         string
	State      JobState
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Processed  int
	Written    int
	Failed     int
	LastError  string
}
