// Package inventory enumerates the containers belonging to the managed
// stack. Implementations query the runtime on every call; results are
// never cached across actions.
package inventory

import (
	"context"
	"fmt"
)

// Container is one managed runtime unit, valid for the duration of a
// single command execution.
type Container struct {
	ID      string
	Name    string
	Running bool
}

// Error reports a failure to enumerate containers from the runtime.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("inventory %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Inventory lists containers in the runtime's native reporting order.
type Inventory interface {
	// ListRunning returns every running container.
	ListRunning(ctx context.Context) ([]Container, error)
	// ListStack returns the running containers labeled as part of the
	// given stack.
	ListStack(ctx context.Context, stack string) ([]Container, error)
}
