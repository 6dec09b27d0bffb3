package persistence

import (
	"time"
)

type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Run is one invocation of the pipeline
type Run struct {
	ID          string
	InputDir    string
	OutputDir   string
	SourceLang  string
	TargetLang  string
	Backend     string
	Status      RunStatus
	FilesTotal  int
	FilesFailed int
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// RunFile is the outcome of one input file within a run
type RunFile struct {
	RunID         string
	Position      int
	InputPath     string
	OutputPath    string
	Units         int
	Batches       int
	CachedBatches int
	Status        string
	Error         string
	Duration      time.Duration
}

// BatchKey identifies a translated batch independent of the file it came from
type BatchKey struct {
	ContentHash string
	SourceLang  string
	TargetLang  string
	Backend     string
}
