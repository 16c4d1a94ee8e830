package metrics

import "time"

// OutcomeLabel enumerates build outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// FileKind labels rendered output files.
type FileKind string

const (
	KindPage     FileKind = "page"
	KindDocument FileKind = "document"
)

// Recorder defines observability hooks for builds and the watcher.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	AddRenderedFiles(kind FileKind, n int)
	IncSkippedRebuild()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)       {}
func (NoopRecorder) AddRenderedFiles(FileKind, int)     {}
func (NoopRecorder) IncSkippedRebuild()                 {}
