package metrics

import "time"

// BuildOutcome labels the final status of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Recorder defines observability hooks for site builds.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	AddPagesWritten(n int)
	AddPassthroughFiles(n int)
	IncJSMinFallback()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)       {}
func (NoopRecorder) AddPagesWritten(int)                {}
func (NoopRecorder) AddPassthroughFiles(int)            {}
func (NoopRecorder) IncJSMinFallback()                  {}
