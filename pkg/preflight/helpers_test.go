package preflight_test

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preflight/pkg/git"
	"github.com/askiada/go-preflight/pkg/manifest"
	"github.com/askiada/go-preflight/pkg/preflight"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

// fakeRepo is an in-sync, clean repository on master with git 2.40.0 unless told otherwise.
type fakeRepo struct {
	remoteErr  error
	branchErr  error
	fetchErr   error
	branch     string
	version    string
	divergence string
	calls      []string
	dirty      []string
	noVersion  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{branch: "master", version: "2.40.0"}
}

func (f *fakeRepo) ToolVersion(_ context.Context) (string, bool, error) {
	f.calls = append(f.calls, "version")
	if f.noVersion {
		return "", false, nil
	}

	return f.version, true, nil
}

func (f *fakeRepo) WorkingTreeStatus(_ context.Context) ([]string, error) {
	f.calls = append(f.calls, "status")

	return f.dirty, nil
}

func (f *fakeRepo) CurrentBranch(_ context.Context) (string, error) {
	f.calls = append(f.calls, "branch")

	return f.branch, f.branchErr
}

func (f *fakeRepo) VerifyRemoteReachable(_ context.Context, remote string) error {
	f.calls = append(f.calls, "ls-remote "+remote)

	return f.remoteErr
}

func (f *fakeRepo) SyncStatus(_ context.Context, branch string) (git.Sync, error) {
	f.calls = append(f.calls, "sync "+branch)
	if f.fetchErr != nil {
		return git.Sync{}, f.fetchErr
	}

	return git.Sync{Divergence: f.divergence}, nil
}

func staticLocator(m *manifest.Manifest) manifest.Locator {
	return func(string) (*manifest.Manifest, error) {
		if m == nil {
			return nil, manifest.ErrNotFound
		}

		return m, nil
	}
}

func stablePackage() *manifest.Manifest {
	return &manifest.Manifest{
		Name:         "demo",
		Version:      "1.2.3",
		Path:         "/work/demo/package.json",
		Dependencies: map[string]string{"left-pad": "^1.3.0", "next": "canary"},
	}
}

// recorder is a pipeline option keeping every notification it receives.
type recorder struct {
	finishErr error
	titles    []string
	outcomes  []string
	prepared  []string
	finished  bool
}

func (r *recorder) New() error { return nil }

func (r *recorder) PrepareStep(parentStep, step *model.StepInfo) error {
	r.prepared = append(r.prepared, parentStep.Name+">"+step.Name)

	return nil
}

func (r *recorder) OnStepTitle(step *model.StepInfo) error {
	r.titles = append(r.titles, step.Title)

	return nil
}

func (r *recorder) OnStepOutcome(step *model.StepInfo) error {
	r.outcomes = append(r.outcomes, step.Name+":"+string(step.Outcome))

	return nil
}

func (r *recorder) Finish(runErr error) error {
	r.finished = true
	r.finishErr = runErr

	return nil
}

func newPipeline(t *testing.T, repo preflight.Repository, m *manifest.Manifest, opts ...preflight.PipelineOption) *preflight.Pipeline {
	t.Helper()

	opts = append([]preflight.PipelineOption{
		preflight.WithRepository(repo),
		preflight.WithMetadataLocator(staticLocator(m)),
		preflight.WithLogger(log.New(io.Discard)),
	}, opts...)

	pipe, err := preflight.New(opts...)
	require.NoError(t, err)

	return pipe
}

func outcomes(pipe *preflight.Pipeline) []model.Outcome {
	res := []model.Outcome{}
	for _, step := range pipe.Steps() {
		res = append(res, step.Outcome())
	}

	return res
}
