package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Output is the captured output of a finished process.
type Output struct {
	Stdout string
	Stderr string
}

// Runner runs the version control tool with the given arguments.
type Runner interface {
	Run(ctx context.Context, args ...string) (Output, error)
}

// ProcessError is returned when a process exits with a non-zero code or cannot be spawned.
// ExitCode is -1 when the process never started.
type ProcessError struct {
	Err      error
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}

	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ExecRunner spawns the tool binary with os/exec.
type ExecRunner struct {
	Logger *log.Logger
	// Binary defaults to "git".
	Binary string
	// Dir is the working directory of the spawned process, empty means the current one.
	Dir string
}

// NewExecRunner creates a runner for binary executed in dir.
func NewExecRunner(binary, dir string, logger *log.Logger) *ExecRunner {
	return &ExecRunner{
		Binary: binary,
		Dir:    dir,
		Logger: logger,
	}
}

func (r *ExecRunner) binary() string {
	if r.Binary == "" {
		return "git"
	}

	return r.Binary
}

func (r *ExecRunner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}

	return r.Logger
}

// Run starts the process and waits for it to exit. Only the trailing line break of each stream is trimmed.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	fullArgs := append([]string{r.binary()}, args...)
	r.logger().Debug("Running command", "args", fullArgs, "dir", r.Dir)

	err := cmd.Run()
	out := Output{
		Stdout: strings.TrimRight(stdout.String(), "\r\n"),
		Stderr: strings.TrimRight(stderr.String(), "\r\n"),
	}

	if err != nil {
		exitCode := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		r.logger().Debug("Command failed", "args", fullArgs, "exit_code", exitCode)

		return out, &ProcessError{
			Err:      err,
			Args:     fullArgs,
			Stderr:   out.Stderr,
			ExitCode: exitCode,
		}
	}

	return out, nil
}

var _ Runner = (*ExecRunner)(nil)
