package preflight

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-preflight/pkg/git"
	"github.com/askiada/go-preflight/pkg/manifest"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

// Repository is what the checks need to know about the repository.
type Repository interface {
	ToolVersion(ctx context.Context) (string, bool, error)
	WorkingTreeStatus(ctx context.Context) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
	VerifyRemoteReachable(ctx context.Context, remote string) error
	SyncStatus(ctx context.Context, branch string) (git.Sync, error)
}

// Pipeline is the ordered list of release checks.
type Pipeline struct {
	repo      Repository
	locate    manifest.Locator
	logger    *log.Logger
	observers []model.PipelineOption
	steps     []*Step
	ran       bool
}

// New creates a new pipeline.
func New(opts ...PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		steps: newSteps(),
	}

	for _, opt := range opts {
		opt(pipe)
	}

	if pipe.logger == nil {
		pipe.logger = log.Default()
	}

	if pipe.locate == nil {
		pipe.locate = manifest.FindUp
	}

	if pipe.repo == nil {
		pipe.repo = git.NewInspector(git.NewExecRunner("git", "", pipe.logger))
	}

	for _, obs := range pipe.observers {
		err := obs.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	parent := model.StartStep
	for _, step := range pipe.steps {
		for _, obs := range pipe.observers {
			err := obs.PrepareStep(parent, step.info)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare step %s", step.info.Name)
			}
		}

		parent = step.info
	}

	return pipe, nil
}

// Steps returns the checks in execution order.
func (p *Pipeline) Steps() []*Step {
	steps := make([]*Step, len(p.steps))
	copy(steps, p.steps)

	return steps
}

// Run executes the checks in order against rc and returns the first error, unchanged.
// Checks after a failing one do not run. A pipeline can only run once.
func (p *Pipeline) Run(ctx context.Context, rc *RunContext) error {
	if rc == nil {
		return ErrRunContextMustBeSet
	}

	if p.ran {
		return ErrAlreadyRun
	}

	p.ran = true

	var runErr error

	for _, step := range p.steps {
		runErr = p.runStep(ctx, rc, step)
		if runErr != nil {
			break
		}
	}

	return p.finishRun(runErr)
}

func (p *Pipeline) runStep(ctx context.Context, rc *RunContext, step *Step) error {
	p.logger.Debug("Running step", "step", step.info.Name)

	start := time.Now()
	outcome, err := p.check(ctx, rc, step)

	step.info.Elapsed = time.Since(start)
	step.info.Outcome = outcome
	step.info.Err = err

	if err != nil {
		step.info.Outcome = model.Failed
	}

	p.logger.Debug("Step finished", "step", step.info.Name, "outcome", step.info.Outcome, "elapsed", step.info.Elapsed)

	for _, obs := range p.observers {
		obsErr := obs.OnStepOutcome(step.info)
		if obsErr == nil {
			continue
		}

		if err == nil {
			return errors.Wrapf(obsErr, "unable to report outcome of step %s", step.info.Name)
		}

		p.logger.Warn("Unable to report step outcome", "step", step.info.Name, "error", obsErr)
	}

	return err
}

func (p *Pipeline) check(ctx context.Context, rc *RunContext, step *Step) (model.Outcome, error) {
	switch step.kind {
	case detectPackage:
		return p.detectPackage(rc, step)
	case verifyGitVersion:
		return p.verifyGitVersion(ctx, rc, step)
	case verifyCleanTree:
		return p.verifyCleanTree(ctx, step)
	case verifyReleaseBranch:
		return p.verifyReleaseBranch(ctx, rc, step)
	case verifyDependencies:
		return p.verifyDependencies(rc, step)
	case verifyRemote:
		return p.verifyRemote(ctx, step)
	case verifyUpstreamSync:
		return p.verifyUpstreamSync(ctx, rc, step)
	}

	return model.Failed, errors.Errorf("unknown step kind %d", step.kind)
}

func (p *Pipeline) setTitle(step *Step, title string) error {
	step.info.Title = title

	for _, obs := range p.observers {
		err := obs.OnStepTitle(step.info)
		if err != nil {
			return errors.Wrapf(err, "unable to report title of step %s", step.info.Name)
		}
	}

	return nil
}

func (p *Pipeline) finishRun(runErr error) error {
	for _, obs := range p.observers {
		err := obs.Finish(runErr)
		if err == nil {
			continue
		}

		if runErr != nil {
			p.logger.Warn("Unable to finish pipeline option", "error", err)

			continue
		}

		return errors.Wrap(err, "unable to finish pipeline option")
	}

	return runErr
}
