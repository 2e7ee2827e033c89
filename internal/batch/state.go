package batch

import "time"

// Status is the lifecycle of a batch run.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusFailed    Status = "failed"
)

// Outcome classifies one file's result. Skipped is deliberately neither
// success nor failure.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RunState is the mutable record of an in-progress or just-finished batch.
// The runner goroutine is the sole writer; Snapshot returns copies for
// everyone else.
type RunState struct {
	RunID          string
	Status         Status
	Folder         string
	StartTime      time.Time
	FilesTotal     int
	FilesProcessed int
	Succeeded      int
	Skipped        int
	Failed         int
	CurrentFile    string
	PerFileSeconds []float64
}

func (s RunState) clone() RunState {
	copied := s
	copied.PerFileSeconds = append([]float64(nil), s.PerFileSeconds...)
	return copied
}

// Summary aggregates a finished run.
type Summary struct {
	RunID      string
	Status     Status
	FilesTotal int
	Processed  int
	Succeeded  int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	AvgPerFile time.Duration
}
