// Package forms holds per-form submission state and multi-step wizards
package forms

import (
	"fmt"
	"sync"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is what the visitor sees about the last submission of a form
type Status struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Tracker keeps submission state per form name.
// A form that is submitting can't be submitted again until it finishes.
type Tracker struct {
	mu    sync.Mutex
	forms map[string]Status
}

func NewTracker() *Tracker {
	return &Tracker{forms: make(map[string]Status)}
}

func (t *Tracker) Status(form string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forms[form]
}

// Begin moves form to submitting. Returns ErrSubmissionInProgress if it is already there
func (t *Tracker) Begin(form string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.forms[form].State == Submitting {
		return fmt.Errorf("%s: %w", form, apperrors.ErrSubmissionInProgress)
	}
	t.forms[form] = Status{State: Submitting}
	return nil
}

// Finish moves form to succeeded or failed depending on err
func (t *Tracker) Finish(form string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.forms[form] = Status{State: Failed, Error: err.Error()}
		return
	}
	t.forms[form] = Status{State: Succeeded}
}

// Reset returns form to idle
func (t *Tracker) Reset(form string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.forms, form)
}

// Submit runs fn between Begin and Finish
func (t *Tracker) Submit(form string, fn func() error) error {
	if err := t.Begin(form); err != nil {
		return err
	}
	err := fn()
	t.Finish(form, err)
	return err
}
