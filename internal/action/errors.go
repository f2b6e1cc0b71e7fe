package action

import (
	"errors"
	"fmt"
)

// ErrNoTargets is returned when an action needs containers but none were
// named and no selection flag was given.
var ErrNoTargets = errors.New("no containers specified: pass container names, --stacks, or --all")

// ItemFailure records one container operation that failed inside a
// best-effort loop.
type ItemFailure struct {
	Container string
	Command   string
	ExitCode  int
}

func (f ItemFailure) String() string {
	return fmt.Sprintf("%s: %s exited %d", f.Container, f.Command, f.ExitCode)
}

// PartialError aggregates per-container failures from a loop that ran to
// completion. The surviving containers were still processed.
type PartialError struct {
	Action   string
	Failures []ItemFailure
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: %d container(s) failed", e.Action, len(e.Failures))
}

// PipelineError reports a gated stage that failed; later stages were
// not attempted.
type PipelineError struct {
	Action string
	Stage  string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s stage failed: %v", e.Action, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
