package preflight

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-preflight/pkg/manifest"
)

var (
	ErrRunContextMustBeSet = errors.New("run context must be set")
	ErrAlreadyRun          = errors.New("pipeline has already run")
	// ErrMetadataNotFound is returned by the first check when no package descriptor exists.
	ErrMetadataNotFound = manifest.ErrNotFound
)

// AssertionError is returned when a checked invariant does not hold.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

func assertf(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}

	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}
