package drawer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-preflight/pkg/preflight/measure"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

type pipelineDrawer struct {
	Drawer
	m        measure.Measure
	lastStep string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	pd.lastStep = model.StartStep.Name

	return pd.SetOutcome(model.StartStep.Name, model.Succeeded)
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	err = pd.AddLink(parentStep.Name, step.Name)
	if err != nil {
		return err
	}

	pd.lastStep = step.Name

	return nil
}

func (pd *pipelineDrawer) OnStepTitle(_ *model.StepInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnStepOutcome(step *model.StepInfo) error {
	return pd.SetOutcome(step.Name, step.Outcome)
}

func (pd *pipelineDrawer) Finish(runErr error) error {
	err := pd.AddLink(pd.lastStep, model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link end step")
	}

	endOutcome := model.Succeeded
	if runErr != nil {
		endOutcome = model.Failed
	}

	err = pd.SetOutcome(model.EndStep.Name, endOutcome)
	if err != nil {
		return errors.Wrap(err, "unable to set end outcome")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline once it is finished. Measure can be nil.
// When set, it must be registered before the drawer so durations are complete when drawing.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
