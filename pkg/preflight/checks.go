package preflight

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-preflight/pkg/git"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

func (p *Pipeline) detectPackage(rc *RunContext, step *Step) (model.Outcome, error) {
	err := p.setTitle(step, "Detecting package.json...")
	if err != nil {
		return model.Failed, err
	}

	pkg, err := p.locate(rc.Dir)
	if errors.Is(err, ErrMetadataNotFound) || (err == nil && pkg == nil) {
		return model.Failed, ErrMetadataNotFound
	}

	if err != nil {
		return model.Failed, errors.Wrap(err, "unable to read package.json")
	}

	cleaned, ok := cleanVersion(pkg.Version)
	if err := assertf(ok, "Invalid package version %q", pkg.Version); err != nil {
		return model.Failed, err
	}

	rc.Package = pkg
	rc.CleanedVersion = cleaned
	rc.IsPrerelease = isPrerelease(cleaned)

	p.logger.Debug("Package detected", "path", pkg.Path, "version", cleaned, "prerelease", rc.IsPrerelease)

	return model.Succeeded, p.setTitle(step, "Found package.json at "+pkg.Path)
}

func (p *Pipeline) verifyGitVersion(ctx context.Context, rc *RunContext, step *Step) (model.Outcome, error) {
	err := p.setTitle(step, "Verifying Git version...")
	if err != nil {
		return model.Failed, err
	}

	version, found, err := p.repo.ToolVersion(ctx)
	if err != nil {
		return model.Failed, err
	}

	valid := false
	if found {
		valid, err = satisfies(version, rc.RequiredGitRange)
		if err != nil {
			return model.Failed, err
		}
	} else {
		version = "none"
	}

	err = assertf(valid, "Git version expected to satisfy %s. Found %s", rc.RequiredGitRange, version)
	if err != nil {
		return model.Failed, err
	}

	return model.Succeeded, p.setTitle(step, "Git version is "+version)
}

func (p *Pipeline) verifyCleanTree(ctx context.Context, step *Step) (model.Outcome, error) {
	err := p.setTitle(step, "Verifying working directory is clean...")
	if err != nil {
		return model.Failed, err
	}

	files, err := p.repo.WorkingTreeStatus(ctx)
	if err != nil {
		return model.Failed, err
	}

	noun := "file"
	if len(files) > 1 {
		noun = "files"
	}

	err = assertf(len(files) == 0, "Expected working directory to be clean but found %d %s", len(files), noun)
	if err != nil {
		return model.Failed, err
	}

	return model.Succeeded, p.setTitle(step, "Working directory is clean")
}

func (p *Pipeline) verifyReleaseBranch(ctx context.Context, rc *RunContext, step *Step) (model.Outcome, error) {
	if rc.IsPrerelease {
		return model.Skipped, nil
	}

	err := p.setTitle(step, "Verifying current branch is release branch...")
	if err != nil {
		return model.Failed, err
	}

	branch, err := p.repo.CurrentBranch(ctx)
	if err != nil {
		return model.Failed, err
	}

	err = assertf(branch == rc.ReleaseBranch, "Must be on release branch %q. Found %q.", rc.ReleaseBranch, branch)
	if err != nil {
		return model.Failed, err
	}

	rc.CurrentBranch = branch

	return model.Succeeded, p.setTitle(step, fmt.Sprintf("Current branch is %q", branch))
}

// verifyDependencies rejects dependencies pinned to an exact stable version. Ranges, tags and exact
// prerelease versions pass.
// TODO: confirm with release owners whether stable pins should pass and prerelease pins fail instead.
func (p *Pipeline) verifyDependencies(rc *RunContext, step *Step) (model.Outcome, error) {
	if rc.IsPrerelease {
		return model.Skipped, nil
	}

	err := p.setTitle(step, "Verifying the package production dependencies...")
	if err != nil {
		return model.Failed, err
	}

	names := make([]string, 0, len(rc.Package.Dependencies))
	for name := range rc.Package.Dependencies {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		cleaned, exact := cleanVersion(rc.Package.Dependencies[name])

		err = assertf(!exact || isPrerelease(cleaned), "Found pre-release dependency: %s", name)
		if err != nil {
			return model.Failed, err
		}
	}

	return model.Succeeded, p.setTitle(step, "Production dependencies verified")
}

func (p *Pipeline) verifyRemote(ctx context.Context, step *Step) (model.Outcome, error) {
	err := p.setTitle(step, "Verifying remote head exists...")
	if err != nil {
		return model.Failed, err
	}

	err = p.repo.VerifyRemoteReachable(ctx, git.DefaultRemote)
	if err != nil {
		return model.Failed, err
	}

	return model.Succeeded, p.setTitle(step, "Remote head exists")
}

// verifyUpstreamSync compares the release branch with its upstream. Prereleases have no resolved branch,
// the current one is looked up without being stored in the run context.
func (p *Pipeline) verifyUpstreamSync(ctx context.Context, rc *RunContext, step *Step) (model.Outcome, error) {
	err := p.setTitle(step, "Verifying current branch is identical to upstream...")
	if err != nil {
		return model.Failed, err
	}

	branch := rc.CurrentBranch
	if branch == "" {
		branch, err = p.repo.CurrentBranch(ctx)
		if err != nil {
			return model.Failed, err
		}
	}

	sync, err := p.repo.SyncStatus(ctx, branch)
	if err != nil {
		return model.Failed, err
	}

	if !sync.InSync() {
		return model.Failed, &AssertionError{Message: sync.Divergence}
	}

	return model.Succeeded, p.setTitle(step, "Current branch is identical to upstream")
}
