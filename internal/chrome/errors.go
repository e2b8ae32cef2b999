package chrome

import (
	"errors"
	"fmt"
	"strings"
)

// Orchestrator errors.
var (
	// ErrCollapseFailed indicates the join-all-groups command failed.
	// Callers must treat it as fatal to the enter sequence.
	ErrCollapseFailed = errors.New("view group collapse failed")

	// ErrTransitionAborted indicates a hide step failed. Rollback has
	// already been attempted by the time this surfaces.
	ErrTransitionAborted = errors.New("chrome transition aborted")
)

// StepError identifies the step that failed inside a chrome transition.
type StepError struct {
	Step string
	Err  error
}

// Error returns the step and underlying error.
func (e *StepError) Error() string {
	return fmt.Sprintf("chrome step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// RestoreError aggregates the step failures swallowed during a best-effort
// restore. Restoration always runs to completion; this reports what went
// wrong along the way.
type RestoreError struct {
	Steps []*StepError
}

// Error summarizes the failed steps.
func (e *RestoreError) Error() string {
	names := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		names[i] = s.Step
	}
	return fmt.Sprintf("restore completed with %d failed steps: %s", len(e.Steps), strings.Join(names, ", "))
}

// add records a step failure.
func (e *RestoreError) add(step string, err error) {
	e.Steps = append(e.Steps, &StepError{Step: step, Err: err})
}

// orNil returns the error, or nil when no step failed.
func (e *RestoreError) orNil() error {
	if len(e.Steps) == 0 {
		return nil
	}
	return e
}
