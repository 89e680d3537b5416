package preflight

import (
	"github.com/charmbracelet/log"

	"github.com/askiada/go-preflight/pkg/manifest"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

type PipelineOption func(p *Pipeline)

// WithRepository sets the repository the checks query. It defaults to git run in the current directory.
func WithRepository(repo Repository) PipelineOption {
	return func(p *Pipeline) {
		p.repo = repo
	}
}

// WithMetadataLocator sets how the package descriptor is found. It defaults to manifest.FindUp.
func WithMetadataLocator(locate manifest.Locator) PipelineOption {
	return func(p *Pipeline) {
		p.locate = locate
	}
}

func WithLogger(logger *log.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithObservers registers options notified of the pipeline progress, in the given order.
func WithObservers(observers ...model.PipelineOption) PipelineOption {
	return func(p *Pipeline) {
		p.observers = append(p.observers, observers...)
	}
}
