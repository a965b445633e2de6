package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// Recorder defines observability hooks for one evaluation of the site config.
type Recorder interface {
	ObserveRenderDuration(format string, d time.Duration)
	IncRender(format string, result ResultLabel)
	AddFindings(stage string, result ResultLabel, n int)
	IncReload(trigger string)
}

// NoopRecorder is the default Recorder when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncRender(string, ResultLabel)               {}
func (NoopRecorder) AddFindings(string, ResultLabel, int)        {}
func (NoopRecorder) IncReload(string)                            {}
