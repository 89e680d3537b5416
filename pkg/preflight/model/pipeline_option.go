package model

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs once per step, in declaration order, before the pipeline starts.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepTitle runs everytime the title of a step changes.
	OnStepTitle(step *StepInfo) error
	// OnStepOutcome runs after a step succeeded, was skipped or failed.
	OnStepOutcome(step *StepInfo) error
	// Finish runs after the pipeline is finished, runErr is the error returned by the run if any.
	Finish(runErr error) error
}
