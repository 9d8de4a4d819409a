package forms

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

// Wizard is a current step index over named steps. Moving forward is allowed once the
// caller validated fields of the current step.
type Wizard struct {
	mu      sync.Mutex
	steps   []string
	current int
}

func NewWizard(steps ...string) *Wizard {
	return &Wizard{steps: steps}
}

func (w *Wizard) Steps() []string {
	return slices.Clone(w.steps)
}

func (w *Wizard) Current() (int, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.steps[w.current]
}

func (w *Wizard) IsLast() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current == len(w.steps)-1
}

// Next advances one step. Stays on the last step
func (w *Wizard) Next() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current < len(w.steps)-1 {
		w.current++
	}
	return w.steps[w.current]
}

// Back goes one step back. Stays on the first step
func (w *Wizard) Back() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current > 0 {
		w.current--
	}
	return w.steps[w.current]
}

// GoTo jumps to named step
func (w *Wizard) GoTo(step string) error {
	i, err := w.Index(step)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = i
	return nil
}

func (w *Wizard) Index(step string) (int, error) {
	i := slices.Index(w.steps, step)
	if i < 0 {
		return 0, fmt.Errorf("%q: %w", step, apperrors.ErrUnknownStep)
	}
	return i, nil
}

func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = 0
}
