package drawer

import (
	"github.com/askiada/go-preflight/pkg/preflight/measure"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// SetOutcome records the outcome of a step.
	SetOutcome(stepName string, outcome model.Outcome) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
	// Draw creates a file with the pipeline graph.
	Draw() error
}
