package preflight

import "github.com/askiada/go-preflight/pkg/preflight/model"

type stepKind int

const (
	detectPackage stepKind = iota
	verifyGitVersion
	verifyCleanTree
	verifyReleaseBranch
	verifyDependencies
	verifyRemote
	verifyUpstreamSync
)

// Step names, in execution order.
const (
	StepDetectPackage       = "detect-package"
	StepVerifyGitVersion    = "verify-git-version"
	StepVerifyCleanTree     = "verify-clean-tree"
	StepVerifyReleaseBranch = "verify-release-branch"
	StepVerifyDependencies  = "verify-dependencies"
	StepVerifyRemote        = "verify-remote"
	StepVerifyUpstreamSync  = "verify-upstream-sync"
)

var checks = []struct {
	name  string
	title string
	kind  stepKind
}{
	{kind: detectPackage, name: StepDetectPackage, title: "Detect package.json"},
	{kind: verifyGitVersion, name: StepVerifyGitVersion, title: "Verify Git version"},
	{kind: verifyCleanTree, name: StepVerifyCleanTree, title: "Verify working directory is clean"},
	{
		kind:  verifyReleaseBranch,
		name:  StepVerifyReleaseBranch,
		title: "Verify current branch is release branch if version has no prerelease suffix",
	},
	{
		kind:  verifyDependencies,
		name:  StepVerifyDependencies,
		title: "Verify the package production dependencies are not tags or prerelease versions if version has no prerelease suffix",
	},
	{kind: verifyRemote, name: StepVerifyRemote, title: "Verify remote head exists"},
	{kind: verifyUpstreamSync, name: StepVerifyUpstreamSync, title: "Verify current branch is identical to upstream"},
}

// Step is one check of the pipeline. Its title changes while the pipeline runs.
type Step struct {
	info *model.StepInfo
	kind stepKind
}

func newSteps() []*Step {
	steps := make([]*Step, 0, len(checks))

	for i, c := range checks {
		steps = append(steps, &Step{
			kind: c.kind,
			info: &model.StepInfo{
				Index:   i,
				Name:    c.name,
				Title:   c.title,
				Outcome: model.NotRun,
			},
		})
	}

	return steps
}

func (s *Step) Name() string {
	return s.info.Name
}

func (s *Step) Title() string {
	return s.info.Title
}

func (s *Step) Outcome() model.Outcome {
	return s.info.Outcome
}

// Err is the error the step failed with, nil unless the outcome is model.Failed.
func (s *Step) Err() error {
	return s.info.Err
}

// Info exposes the step as seen by pipeline options.
func (s *Step) Info() model.StepInfo {
	return *s.info
}
