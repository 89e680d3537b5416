package git

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultRemote is the only remote the inspector compares against.
const DefaultRemote = "origin"

var (
	versionRe = regexp.MustCompile(`git version (\d+\.\d+\.\d+)`)
	fatalRe   = regexp.MustCompile(`fatal: .+`)
	syncRe    = regexp.MustCompile(`Your branch is (ahead|behind) .*`)
)

// RemoteError is returned when the remote HEAD cannot be listed.
// Message is the first "fatal:" line of the tool's error stream and may be empty.
type RemoteError struct {
	Err     error
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a branch cannot be fetched before the sync check.
type FetchError struct {
	Err    error
	Remote string
	Branch string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch %s/%s", e.Remote, e.Branch)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Sync describes how a local branch relates to its upstream.
// A zero Sync means the branch is in sync.
type Sync struct {
	// Divergence is the tool's sentence, e.g. "Your branch is ahead of 'origin/master' by 1 commit."
	Divergence string
}

// InSync reports whether no divergence was found.
func (s Sync) InSync() bool {
	return s.Divergence == ""
}

// Inspector answers questions about the repository by running the tool and parsing its output.
type Inspector struct {
	runner Runner
}

// NewInspector creates an inspector on top of runner.
func NewInspector(runner Runner) *Inspector {
	return &Inspector{runner: runner}
}

// IsRepository reports whether the working directory is inside a work tree.
// Any failure is reported as false.
func (i *Inspector) IsRepository(ctx context.Context) bool {
	_, err := i.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")

	return err == nil
}

// CurrentBranch returns the short name of HEAD. It fails on a detached HEAD.
func (i *Inspector) CurrentBranch(ctx context.Context) (string, error) {
	out, err := i.runner.Run(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve current branch")
	}

	return strings.TrimSpace(out.Stdout), nil
}

// ToolVersion returns the MAJOR.MINOR.PATCH version reported by the tool.
// The boolean is false when the output does not contain a version.
func (i *Inspector) ToolVersion(ctx context.Context) (string, bool, error) {
	out, err := i.runner.Run(ctx, "version")
	if err != nil {
		return "", false, errors.Wrap(err, "unable to get git version")
	}

	version, ok := parseVersion(out.Stdout)

	return version, ok, nil
}

// VerifyRemoteReachable lists the HEAD reference of remote.
func (i *Inspector) VerifyRemoteReachable(ctx context.Context, remote string) error {
	out, err := i.runner.Run(ctx, "ls-remote", remote, "HEAD")
	if err != nil {
		stderr := out.Stderr

		var procErr *ProcessError
		if errors.As(err, &procErr) {
			stderr = procErr.Stderr
		}

		return &RemoteError{
			Err:     err,
			Message: firstFatalLine(stderr),
		}
	}

	return nil
}

// WorkingTreeStatus returns one entry per changed path, in the order reported by the tool.
func (i *Inspector) WorkingTreeStatus(ctx context.Context) ([]string, error) {
	out, err := i.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, errors.Wrap(err, "unable to get working tree status")
	}

	return parsePorcelain(out.Stdout), nil
}

// SyncStatus fetches branch from the default remote and compares the local branch with it.
// The fetch is the only call that changes repository state.
func (i *Inspector) SyncStatus(ctx context.Context, branch string) (Sync, error) {
	_, err := i.runner.Run(ctx, "fetch", DefaultRemote, branch)
	if err != nil {
		return Sync{}, &FetchError{
			Err:    err,
			Remote: DefaultRemote,
			Branch: branch,
		}
	}

	out, err := i.runner.Run(ctx, "status")
	if err != nil {
		return Sync{}, errors.Wrap(err, "unable to get branch status")
	}

	return parseSync(out.Stdout), nil
}

func parseVersion(text string) (string, bool) {
	match := versionRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return match[1], true
}

func firstFatalLine(stderr string) string {
	return fatalRe.FindString(stderr)
}

func parsePorcelain(text string) []string {
	entries := []string{}

	for _, line := range strings.Split(text, "\n") {
		// porcelain entries may start with a space, only blank lines are dropped
		if strings.TrimSpace(line) == "" {
			continue
		}

		entries = append(entries, strings.TrimRight(line, "\r"))
	}

	return entries
}

// parseSync looks for sentences like:
//
//	Your branch is ahead of 'origin/master' by 1 commit.
//	Your branch is behind 'origin/master' by 38 commits, and can be fast-forwarded.
func parseSync(text string) Sync {
	return Sync{Divergence: syncRe.FindString(text)}
}
