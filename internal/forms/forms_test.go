package forms

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

func TestTracker(t *testing.T) {
	t.Run("lifecycle", func(t *testing.T) {
		tr := NewTracker()
		require.Equal(t, Idle, tr.Status("contact").State)

		require.NoError(t, tr.Begin("contact"))
		require.Equal(t, Submitting, tr.Status("contact").State)

		err := tr.Begin("contact")
		require.ErrorIs(t, err, apperrors.ErrSubmissionInProgress, "re-submission gated")
		require.NoError(t, tr.Begin("newsletter"), "other forms are not gated")

		tr.Finish("contact", errors.New("bad email"))
		require.Equal(t, Status{State: Failed, Error: "bad email"}, tr.Status("contact"))

		require.NoError(t, tr.Begin("contact"), "failed form can be submitted again")
		tr.Finish("contact", nil)
		require.Equal(t, Succeeded, tr.Status("contact").State)

		tr.Reset("contact")
		require.Equal(t, Idle, tr.Status("contact").State)
	})

	t.Run("submit", func(t *testing.T) {
		tr := NewTracker()

		err := tr.Submit("inquiry", func() error {
			require.ErrorIs(t, tr.Submit("inquiry", func() error { return nil }), apperrors.ErrSubmissionInProgress)
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, Succeeded, tr.Status("inquiry").State)
	})

	t.Run("status json", func(t *testing.T) {
		b, err := json.Marshal(Status{State: Submitting})
		require.NoError(t, err)
		require.JSONEq(t, `{"state":"submitting"}`, string(b))
	})
}

func TestWizard(t *testing.T) {
	w := NewWizard("personal", "travel", "confirm")

	i, step := w.Current()
	require.Equal(t, 0, i)
	require.Equal(t, "personal", step)
	require.Equal(t, "personal", w.Back(), "stays on first")

	require.Equal(t, "travel", w.Next())
	require.Equal(t, "confirm", w.Next())
	require.True(t, w.IsLast())
	require.Equal(t, "confirm", w.Next(), "stays on last")

	require.NoError(t, w.GoTo("travel"))
	_, step = w.Current()
	require.Equal(t, "travel", step)

	require.ErrorIs(t, w.GoTo("payment"), apperrors.ErrUnknownStep)

	w.Reset()
	_, step = w.Current()
	require.Equal(t, "personal", step)
}
