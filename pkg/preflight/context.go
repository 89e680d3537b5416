package preflight

import "github.com/askiada/go-preflight/pkg/manifest"

// RunContext carries the inputs of a run and the values checks derive from them.
// A new RunContext must be created for every run.
type RunContext struct {
	// Package is set by the first check.
	Package *manifest.Manifest
	// Dir is where the package descriptor lookup starts.
	Dir string
	// RequiredGitRange is the version range git must satisfy, e.g. ">=2.20.0".
	RequiredGitRange string
	// ReleaseBranch is the branch stable versions must be released from.
	ReleaseBranch string
	// CleanedVersion is the normalised package version.
	CleanedVersion string
	// CurrentBranch is only set when the version is not a prerelease.
	CurrentBranch string
	IsPrerelease  bool
}

// NewRunContext creates the context for a single run.
func NewRunContext(dir, requiredGitRange, releaseBranch string) *RunContext {
	return &RunContext{
		Dir:              dir,
		RequiredGitRange: requiredGitRange,
		ReleaseBranch:    releaseBranch,
	}
}
