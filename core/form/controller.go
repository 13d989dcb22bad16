// Package form binds submitted field values to a value+error model and guards
// submissions with a busy flag.
package form

import (
	"context"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
)

// GenericFailureMessage is shown when a submission fails without a usable message.
const GenericFailureMessage = "Something went wrong. Please try again."

type (
	// State is a snapshot of a form: entered values, field errors, the
	// form-level request message and the busy flag.
	State struct {
		Values  map[string]string
		Errors  map[string]string
		Message string
		Busy    bool
	}

	// ValidateFunc validates the submitted values. It must be free of side effects.
	ValidateFunc func(values map[string]string) error

	// SendFunc issues the network request for validated values.
	SendFunc func(ctx context.Context) error

	Controller struct {
		translator ut.Translator
		defaults   map[string]string
		fallback   string
		sensitive  map[string]bool

		mu      sync.Mutex
		values  map[string]string
		errs    map[string]string
		message string
		busy    bool
	}
)

// NewController returns a Controller whose values start from defaults.
func NewController(translator ut.Translator, defaults map[string]string) *Controller {
	c := &Controller{
		translator: translator,
		defaults:   copyMap(defaults),
		fallback:   GenericFailureMessage,
	}
	c.Reset()
	return c
}

// WithFailureMessage sets the message used when a failed request carries none.
func (c *Controller) WithFailureMessage(msg string) *Controller {
	c.mu.Lock()
	c.fallback = msg
	c.mu.Unlock()
	return c
}

// Sensitive marks fields, such as passwords, that are validated and sent but
// never kept in the form state.
func (c *Controller) Sensitive(fields ...string) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sensitive == nil {
		c.sensitive = make(map[string]bool, len(fields))
	}
	for _, field := range fields {
		c.sensitive[field] = true
		delete(c.values, field)
	}
	return c
}

// Set updates a single field value, e.g. on every keystroke.
func (c *Controller) Set(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sensitive[field] {
		return
	}
	c.values[field] = value
}

// Busy reports whether a submission is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Values:  copyMap(c.values),
		Errors:  copyMap(c.errs),
		Message: c.message,
		Busy:    c.busy,
	}
}

// Reset restores the default values and clears errors.
// It is a no-op while a submission is outstanding.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return
	}
	c.values = copyMap(c.defaults)
	for field := range c.sensitive {
		delete(c.values, field)
	}
	c.errs = make(map[string]string)
	c.message = ""
}

// Submit records values, validates them and, when they pass, calls send while
// holding the busy flag.
//   - busy: core.ErrBusy is returned, nothing is validated nor sent.
//   - invalid: a *core.ValidationError is returned, send is not called.
//   - send failed: the failure's message is kept as the form message and returned as a *core.RequestError.
//
// Entered values are kept in every case, except for sensitive fields.
func (c *Controller) Submit(ctx context.Context, values map[string]string, validate ValidateFunc, send SendFunc) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return core.ErrBusy
	}
	current := copyMap(c.values)
	for field, value := range values {
		current[field] = value
		if !c.sensitive[field] {
			c.values[field] = value
		}
	}
	c.mu.Unlock()

	if validate != nil {
		if err := validate(current); err != nil {
			err = core.ToValidationError(err, c.translator)
			var vErr *core.ValidationError
			if !errors.As(err, &vErr) {
				return errors.Wrap(err, "validating form")
			}
			c.mu.Lock()
			c.errs = vErr.FieldMap()
			c.mu.Unlock()
			return vErr
		}
	}

	c.mu.Lock()
	if c.busy { // another submission got in while validating
		c.mu.Unlock()
		return core.ErrBusy
	}
	c.busy = true
	c.errs = make(map[string]string)
	fallback := c.fallback
	c.mu.Unlock()

	err := send(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		reqErr := core.AsRequestError(err)
		c.message = reqErr.MessageOr(fallback)
		return reqErr
	}
	c.message = ""
	return nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
