// Package report prints the progress of the preflight checks to a terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/askiada/go-preflight/pkg/preflight/model"
)

var (
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	progressStyle  = lipgloss.NewStyle().Faint(true)
)

// Reporter writes one line per finished step, and progress titles when verbose.
type Reporter struct {
	out     io.Writer
	verbose bool
}

// New creates a reporter writing to out.
func New(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

func (r *Reporter) New() error {
	return nil
}

func (r *Reporter) PrepareStep(_, _ *model.StepInfo) error {
	return nil
}

func (r *Reporter) OnStepTitle(step *model.StepInfo) error {
	if !r.verbose {
		return nil
	}

	_, err := fmt.Fprintln(r.out, progressStyle.Render("  "+step.Title))

	return err
}

func (r *Reporter) OnStepOutcome(step *model.StepInfo) error {
	var line string

	switch step.Outcome {
	case model.Succeeded:
		line = succeededStyle.Render("✔") + " " + step.Title
	case model.Skipped:
		line = skippedStyle.Render("↓") + " " + step.Title + skippedStyle.Render(" [skipped]")
	case model.Failed:
		line = failedStyle.Render("✖") + " " + step.Title
		if step.Err != nil {
			line += "\n  " + failedStyle.Render("→ "+step.Err.Error())
		}
	default:
		return nil
	}

	_, err := fmt.Fprintln(r.out, line)

	return err
}

func (r *Reporter) Finish(runErr error) error {
	if runErr != nil {
		return nil
	}

	_, err := fmt.Fprintln(r.out, succeededStyle.Render("Preflight checks passed"))

	return err
}

var _ model.PipelineOption = (*Reporter)(nil)
