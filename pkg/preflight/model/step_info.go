package model

import "time"

// Outcome is the result of a single check step.
type Outcome string

const (
	// NotRun is the outcome of a step the pipeline never reached.
	NotRun Outcome = "not run"
	// Succeeded means the invariant held.
	Succeeded Outcome = "succeeded"
	// Skipped means a guard turned the step into a no-op. It counts as success.
	Skipped Outcome = "skipped"
	// Failed means the step raised an error and aborted the pipeline.
	Failed Outcome = "failed"
)

// Done reports whether the pipeline may continue after this outcome.
func (o Outcome) Done() bool {
	return o == Succeeded || o == Skipped
}

// StepInfo is the observable state of a check step.
type StepInfo struct {
	Err     error
	Name    string
	Title   string
	Outcome Outcome
	Elapsed time.Duration
	Index   int
}

var (
	StartStep = &StepInfo{Name: "start", Index: -1, Outcome: Succeeded}
	EndStep   = &StepInfo{Name: "end", Outcome: NotRun}
)
