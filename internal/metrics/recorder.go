package metrics

import "time"

// ResultLabel enumerates per-file and per-transform result categories.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFailed  ResultLabel = "failed"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for compile, transform and build metrics.
type Recorder interface {
	ObserveCompileDuration(ext string, d time.Duration)
	IncCompileResult(ext string, result ResultLabel)
	ObserveTransformDuration(name string, d time.Duration)
	IncTransformResult(name string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetLiveReloadClients(n int)
	IncLiveReloadBroadcast()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompileDuration(string, time.Duration)   {}
func (NoopRecorder) IncCompileResult(string, ResultLabel)           {}
func (NoopRecorder) ObserveTransformDuration(string, time.Duration) {}
func (NoopRecorder) IncTransformResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)             {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)              {}
func (NoopRecorder) SetLiveReloadClients(int)                       {}
func (NoopRecorder) IncLiveReloadBroadcast()                        {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
