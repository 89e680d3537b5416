// Package preflight verifies that a repository is ready for a release.
//
// A Pipeline runs a fixed, ordered list of checks against a RunContext. Each check reads the package
// descriptor or queries the repository through the git package, then either succeeds, is skipped by a
// guard, or fails. Checks run one after the other: the first failure stops the pipeline and is returned
// unchanged, so its message can be shown to the user as is. Skipped checks count as successes.
//
// The RunContext is owned by the pipeline for the duration of Run. Earlier checks write the values later
// checks depend on, for instance the cleaned package version decides whether the branch and dependency
// checks are skipped, and the resolved branch is the one compared with its upstream.
//
// Options implementing model.PipelineOption observe the run: they see every step before it starts, every
// title change and every outcome. The measure and drawer packages provide such options to record durations
// and to render the executed pipeline as a graph.
package preflight
