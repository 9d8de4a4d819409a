package inquiry

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

func validForm() Form {
	return Form{
		TourName:   "Amalfi Coast & Capri",
		FullName:   "Ann Smith",
		Email:      "ann@example.com",
		Phone:      "+44 20 7946 0958",
		Country:    "UK",
		TravelDate: "2026-09-01",
		Adults:     "2",
		AgreeTerms: true,
	}
}

func TestForm_WhatsAppScenario(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())

	links := f.Links("+39 333 123 4567", "info@example.com")

	require.True(t, strings.HasPrefix(links.WhatsApp, "https://wa.me/393331234567?text="))
	require.NotContains(t, links.WhatsApp, "+", "spaces encoded as %20")

	u, err := url.Parse(links.WhatsApp)
	require.NoError(t, err)
	text := u.Query().Get("text")

	require.Contains(t, text, "Amalfi Coast & Capri")
	require.Contains(t, text, "Personal Details:")
	require.Contains(t, text, "Travel Details:")
	require.Contains(t, text, "Adults: 2")
	require.Contains(t, text, "Children: 0", "absent count defaults to 0")
	require.Contains(t, text, "Infants: 0")
	require.Contains(t, text, "Phone: +44 20 7946 0958")
}

func TestForm_Mailto(t *testing.T) {
	links := validForm().Links("1", "info@example.com")

	require.True(t, strings.HasPrefix(links.Mailto, "mailto:info@example.com?subject=Tour%20Inquiry%3A%20Amalfi%20Coast%20%26%20Capri&body="))
	require.Contains(t, links.Mailto, "Personal%20Details%3A")
}

func TestForm_Validate(t *testing.T) {
	t.Run("terms not accepted", func(t *testing.T) {
		f := validForm()
		f.AgreeTerms = false

		require.ErrorIs(t, f.Validate(), apperrors.ErrTermsNotAccepted)
	})

	t.Run("field errors", func(t *testing.T) {
		f := validForm()
		f.Email = "not-an-email"
		f.Adults = "two"

		var errs validator.ValidationErrors
		require.True(t, errors.As(f.Validate(), &errs))
		require.Len(t, errs, 2)
	})
}

func TestForm_ValidateStep(t *testing.T) {
	f := Form{FullName: "Ann Smith", Email: "ann@example.com", Phone: "+44 20 7946 0958"}

	require.NoError(t, f.ValidateStep(StepPersonal))
	require.NoError(t, f.ValidateStep(StepTravel), "travel fields are optional")
	require.Error(t, f.ValidateStep(StepConfirm), "tour name missing")

	f.TourName = "Alps"
	require.ErrorIs(t, f.ValidateStep(StepConfirm), apperrors.ErrTermsNotAccepted)

	f.Email = ""
	require.Error(t, f.ValidateStep(StepPersonal))

	require.ErrorIs(t, f.ValidateStep("payment"), apperrors.ErrUnknownStep)
}

func TestForm_Prefill(t *testing.T) {
	f := Form{FullName: "Typed Name"}.Prefill(Contact{FullName: "Saved Name", Email: "saved@example.com"})

	require.Equal(t, "Typed Name", f.FullName, "typed values win")
	require.Equal(t, "saved@example.com", f.Email)
}

func TestForm_Lead(t *testing.T) {
	lead := validForm().Lead()

	require.Equal(t, "2", lead.Adults)
	require.Equal(t, "0", lead.Children)
	require.Equal(t, "Amalfi Coast & Capri", lead.Tour)
}
