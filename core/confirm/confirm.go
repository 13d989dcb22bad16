// Package confirm tracks the confirmation dialog guarding destructive actions.
//
//	Closed --Request(x)--> Confirming(x) --Confirm--> action(x) --> Closed
//	                                     --Cancel---------------> Closed
//
// At most one target is pending; a new Request overwrites it.
package confirm

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var ErrNothingPending = errors.New("no action is pending confirmation")

type State int

const (
	Closed State = iota
	Confirming
	Running
)

func (s State) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Running:
		return "running"
	default:
		return "closed"
	}
}

// Action performs the confirmed destructive operation on target.
type Action func(ctx context.Context, target string) error

type Controller struct {
	mu      sync.Mutex
	state   State
	pending string
}

func NewController() *Controller {
	return &Controller{}
}

// Request opens the dialog for target. Last write wins.
func (c *Controller) Request(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		return
	}
	c.state = Confirming
	c.pending = target
}

// Pending returns the target awaiting confirmation.
func (c *Controller) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.state == Confirming
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cancel closes the dialog without running anything.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Confirming {
		c.state = Closed
		c.pending = ""
	}
}

// Confirm runs action once for the pending target and closes the dialog,
// whatever the action's outcome.
func (c *Controller) Confirm(ctx context.Context, action Action) error {
	c.mu.Lock()
	if c.state != Confirming {
		c.mu.Unlock()
		return ErrNothingPending
	}
	target := c.pending
	c.state = Running
	c.mu.Unlock()

	err := action(ctx, target)

	c.mu.Lock()
	c.state = Closed
	c.pending = ""
	c.mu.Unlock()
	return err
}
