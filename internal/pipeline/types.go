package pipeline

import (
	"time"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
)

type FileStatus string

const (
	FileSuccess FileStatus = "success"
	FileFailed  FileStatus = "failed"
	// FileSkipped marks files never started because the run was aborted
	FileSkipped FileStatus = "skipped"
)

// FileResult is the outcome of translating one input file
type FileResult struct {
	Position      int
	InputPath     string
	OutputPath    string
	SourceLang    string
	Units         int
	Batches       int
	CachedBatches int
	Mismatches    []*batch.AlignmentError
	Status        FileStatus
	Err           error
	Duration      time.Duration
}

// Report summarizes a run. Files keeps discovery order.
type Report struct {
	RunID      string
	SourceLang string
	TargetLang string
	Backend    string
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []FileResult
}

func (r *Report) Succeeded() int {
	return r.count(FileSuccess)
}

func (r *Report) Failed() int {
	return r.count(FileFailed)
}

func (r *Report) Skipped() int {
	return r.count(FileSkipped)
}

func (r *Report) count(status FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Status folds the file outcomes into a run status
func (r *Report) Status() persistence.RunStatus {
	switch {
	case r.Failed() == 0 && r.Skipped() == 0:
		return persistence.RunSuccess
	case r.Succeeded() == 0:
		return persistence.RunFailed
	default:
		return persistence.RunPartial
	}
}
