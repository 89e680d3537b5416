package preflight_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preflight/pkg/git"
	"github.com/askiada/go-preflight/pkg/manifest"
	"github.com/askiada/go-preflight/pkg/preflight"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

func TestRunSuccess(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	rec := &recorder{}
	pipe := newPipeline(t, repo, stablePackage(), preflight.WithObservers(rec))
	rc := preflight.NewRunContext("/work/demo", ">=2.20.0", "master")

	err := pipe.Run(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", rc.CleanedVersion)
	assert.False(t, rc.IsPrerelease)
	assert.Equal(t, "master", rc.CurrentBranch)
	assert.Equal(t, "demo", rc.Package.Name)
	assert.Equal(t, []string{"version", "status", "branch", "ls-remote origin", "sync master"}, repo.calls)

	for _, outcome := range outcomes(pipe) {
		assert.Equal(t, model.Succeeded, outcome)
	}

	titles := []string{}
	for _, step := range pipe.Steps() {
		titles = append(titles, step.Title())
	}

	assert.Equal(t, []string{
		"Found package.json at /work/demo/package.json",
		"Git version is 2.40.0",
		"Working directory is clean",
		`Current branch is "master"`,
		"Production dependencies verified",
		"Remote head exists",
		"Current branch is identical to upstream",
	}, titles)

	assert.True(t, rec.finished)
	assert.NoError(t, rec.finishErr)
	assert.Len(t, rec.outcomes, 7)
	assert.Equal(t, "Detecting package.json...", rec.titles[0])
}

func TestStepsOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := newPipeline(t, newFakeRepo(), stablePackage(), preflight.WithObservers(rec))

	names := []string{}
	for _, step := range pipe.Steps() {
		names = append(names, step.Name())
		assert.Equal(t, model.NotRun, step.Outcome())
	}

	assert.Equal(t, []string{
		preflight.StepDetectPackage,
		preflight.StepVerifyGitVersion,
		preflight.StepVerifyCleanTree,
		preflight.StepVerifyReleaseBranch,
		preflight.StepVerifyDependencies,
		preflight.StepVerifyRemote,
		preflight.StepVerifyUpstreamSync,
	}, names)
	assert.Equal(t, "start>"+preflight.StepDetectPackage, rec.prepared[0])
	assert.Equal(t, preflight.StepVerifyRemote+">"+preflight.StepVerifyUpstreamSync, rec.prepared[6])
}

func TestRunMetadataNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	pipe := newPipeline(t, repo, nil)

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	require.ErrorIs(t, err, preflight.ErrMetadataNotFound)
	assert.EqualError(t, err, "package.json not found")
	assert.Empty(t, repo.calls)
	assert.Equal(t, model.Failed, pipe.Steps()[0].Outcome())
}

func TestRunInvalidPackageVersion(t *testing.T) {
	t.Parallel()

	pkg := stablePackage()
	pkg.Version = "not-a-version"
	pipe := newPipeline(t, newFakeRepo(), pkg)

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))

	var assertErr *preflight.AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.EqualError(t, err, `Invalid package version "not-a-version"`)
}

func TestRunGitVersionTooOld(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.version = "2.25.1"
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.30.0", "master"))

	var assertErr *preflight.AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.EqualError(t, err, "Git version expected to satisfy >=2.30.0. Found 2.25.1")
	assert.Equal(t, []string{"version"}, repo.calls)
	assert.Equal(t, []model.Outcome{
		model.Succeeded, model.Failed, model.NotRun, model.NotRun, model.NotRun, model.NotRun, model.NotRun,
	}, outcomes(pipe))
}

func TestRunGitVersionAbsent(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.noVersion = true
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	assert.EqualError(t, err, "Git version expected to satisfy >=2.20.0. Found none")
}

func TestRunDirtyTree(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dirty    []string
		expected string
	}{
		"one file":  {dirty: []string{"M src/a.ts"}, expected: "Expected working directory to be clean but found 1 file"},
		"two files": {dirty: []string{"M src/a.ts", "?? b.ts"}, expected: "Expected working directory to be clean but found 2 files"},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			repo.dirty = tc.dirty
			pipe := newPipeline(t, repo, stablePackage())
			rc := preflight.NewRunContext(".", ">=2.20.0", "master")

			err := pipe.Run(context.Background(), rc)

			var assertErr *preflight.AssertionError
			require.ErrorAs(t, err, &assertErr)
			assert.EqualError(t, err, tc.expected)
			assert.Equal(t, []string{"version", "status"}, repo.calls)
			assert.Empty(t, rc.CurrentBranch)
			assert.Equal(t, []model.Outcome{
				model.Succeeded, model.Succeeded, model.Failed, model.NotRun, model.NotRun, model.NotRun, model.NotRun,
			}, outcomes(pipe))
		})
	}
}

func TestRunPrerelease(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.branch = "feature/next"
	pkg := stablePackage()
	pkg.Version = "1.2.3-beta.1"
	pkg.Dependencies = map[string]string{"pinned": "1.0.0"}
	pipe := newPipeline(t, repo, pkg)
	rc := preflight.NewRunContext(".", ">=2.20.0", "master")

	err := pipe.Run(context.Background(), rc)
	require.NoError(t, err)

	assert.True(t, rc.IsPrerelease)
	assert.Equal(t, "1.2.3-beta.1", rc.CleanedVersion)
	assert.Empty(t, rc.CurrentBranch)
	assert.Equal(t, []model.Outcome{
		model.Succeeded, model.Succeeded, model.Succeeded, model.Skipped, model.Skipped, model.Succeeded, model.Succeeded,
	}, outcomes(pipe))

	steps := pipe.Steps()
	assert.Equal(t, "Verify current branch is release branch if version has no prerelease suffix", steps[3].Title())
	assert.Equal(t, []string{"version", "status", "ls-remote origin", "branch", "sync feature/next"}, repo.calls)
}

func TestRunWrongBranch(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.branch = "develop"
	pipe := newPipeline(t, repo, stablePackage())
	rc := preflight.NewRunContext(".", ">=2.20.0", "main")

	err := pipe.Run(context.Background(), rc)
	assert.EqualError(t, err, `Must be on release branch "main". Found "develop".`)
	assert.Empty(t, rc.CurrentBranch)
	assert.NotContains(t, repo.calls, "ls-remote origin")
}

func TestRunDetachedHead(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.branchErr = &git.ProcessError{Args: []string{"git", "symbolic-ref"}, ExitCode: 1}
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	require.ErrorIs(t, err, repo.branchErr)
}

func TestRunDependencies(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dependencies map[string]string
		expected     string
	}{
		"no dependencies":   {dependencies: map[string]string{}},
		"range":             {dependencies: map[string]string{"a": "^1.0.0", "b": ">=2.0.0 <3.0.0"}},
		"tag":               {dependencies: map[string]string{"a": "latest"}},
		"prerelease pin":    {dependencies: map[string]string{"a": "2.0.0-rc.1"}},
		"stable pin":        {dependencies: map[string]string{"a": "^1.0.0", "b": "1.0.0"}, expected: "Found pre-release dependency: b"},
		"first stable pin":  {dependencies: map[string]string{"z": "3.0.0", "c": "v1.0.0"}, expected: "Found pre-release dependency: c"},
		"prefixed pin":      {dependencies: map[string]string{"a": "=1.0.0"}, expected: "Found pre-release dependency: a"},
		"url specification": {dependencies: map[string]string{"a": "git+https://example.com/a.git#1.0.0"}},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			pkg := stablePackage()
			pkg.Dependencies = tc.dependencies
			pipe := newPipeline(t, repo, pkg)

			err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
			if tc.expected == "" {
				require.NoError(t, err)

				return
			}

			var assertErr *preflight.AssertionError
			require.ErrorAs(t, err, &assertErr)
			assert.EqualError(t, err, tc.expected)
			assert.Equal(t, model.Failed, pipe.Steps()[4].Outcome())
			assert.NotContains(t, repo.calls, "ls-remote origin")
		})
	}
}

func TestRunRemoteUnreachable(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.remoteErr = &git.RemoteError{Message: "fatal: 'origin' does not appear to be a git repository"}
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	assert.Same(t, repo.remoteErr, err)
	assert.EqualError(t, err, "fatal: 'origin' does not appear to be a git repository")
	assert.NotContains(t, repo.calls, "sync master")
}

func TestRunOutOfSync(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.divergence = "Your branch is behind 'origin/master' by 38 commits, and can be fast-forwarded."
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))

	var assertErr *preflight.AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.EqualError(t, err, repo.divergence)
	assert.Equal(t, model.Failed, pipe.Steps()[6].Outcome())
}

func TestRunFetchFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.fetchErr = &git.FetchError{Remote: "origin", Branch: "master"}
	pipe := newPipeline(t, repo, stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	assert.EqualError(t, err, "Failed to fetch origin/master")
}

func TestRunInvalidRange(t *testing.T) {
	t.Parallel()

	pipe := newPipeline(t, newFakeRepo(), stablePackage())

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", "not a range", "master"))
	require.Error(t, err)
	assert.Equal(t, model.Failed, pipe.Steps()[1].Outcome())
}

func TestRunNilContext(t *testing.T) {
	t.Parallel()

	pipe := newPipeline(t, newFakeRepo(), stablePackage())
	require.ErrorIs(t, pipe.Run(context.Background(), nil), preflight.ErrRunContextMustBeSet)
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	pipe := newPipeline(t, newFakeRepo(), stablePackage())
	require.NoError(t, pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master")))
	require.ErrorIs(t, pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master")), preflight.ErrAlreadyRun)
}

func TestRunFinishReceivesError(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.dirty = []string{"M a"}
	rec := &recorder{}
	pipe := newPipeline(t, repo, stablePackage(), preflight.WithObservers(rec))

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	require.Error(t, err)
	assert.True(t, rec.finished)
	assert.Equal(t, err, rec.finishErr)
	assert.Equal(t, []string{
		preflight.StepDetectPackage + ":succeeded",
		preflight.StepVerifyGitVersion + ":succeeded",
		preflight.StepVerifyCleanTree + ":failed",
	}, rec.outcomes)
}

func TestRunLocatorError(t *testing.T) {
	t.Parallel()

	locator := func(string) (*manifest.Manifest, error) {
		return nil, assert.AnError
	}
	pipe := newPipeline(t, newFakeRepo(), nil, preflight.WithMetadataLocator(locator))

	err := pipe.Run(context.Background(), preflight.NewRunContext(".", ">=2.20.0", "master"))
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, preflight.ErrMetadataNotFound)
}
