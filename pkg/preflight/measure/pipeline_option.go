package measure

import (
	"time"

	"github.com/askiada/go-preflight/pkg/preflight/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepTitle(_ *model.StepInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStepOutcome(step *model.StepInfo) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		mt = pm.AddMetric(step.Name)
	}

	mt.AddDuration(step.Elapsed)
	mt.SetTotalDuration(time.Since(pm.startTime))

	return nil
}

func (pm *pipelineMeasure) Finish(_ error) error {
	pm.GetMetric(model.EndStep.Name).SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure records the duration of every step into measure.
// The total duration of a step is the time elapsed since the run started when the step finished.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
