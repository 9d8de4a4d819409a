// Package inquiry turns the tour inquiry form into a WhatsApp message, a mailto link
// or a backend lead.
package inquiry

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/models"
	"github.com/nkiryanov/tourfront/internal/validate"
)

// Wizard steps and the fields each of them owns
const (
	StepPersonal = "personal"
	StepTravel   = "travel"
	StepConfirm  = "confirm"
)

var Steps = []string{StepPersonal, StepTravel, StepConfirm}

var stepFields = map[string][]string{
	StepPersonal: {"FullName", "Email", "Phone", "Country"},
	StepTravel:   {"TravelDate", "Adults", "Children", "Infants", "Message"},
	StepConfirm:  {"TourName", "AgreeTerms"},
}

type Form struct {
	TourName   string `json:"tour_name" validate:"required,max=200"`
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Country    string `json:"country" validate:"max=100"`
	TravelDate string `json:"travel_date" validate:"omitempty,datetime=2006-01-02"`
	Adults     string `json:"adults" validate:"omitempty,numeric"`
	Children   string `json:"children" validate:"omitempty,numeric"`
	Infants    string `json:"infants" validate:"omitempty,numeric"`
	Message    string `json:"message" validate:"max=2000"`
	AgreeTerms bool   `json:"agree_terms"`

	// Remember contact details for the next inquiry
	Remember bool `json:"remember"`
}

// Validate checks every field. Terms must be accepted
func (f Form) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	if !f.AgreeTerms {
		return apperrors.ErrTermsNotAccepted
	}
	return nil
}

// ValidateStep checks only fields of one wizard step
func (f Form) ValidateStep(step string) error {
	fields, ok := stepFields[step]
	if !ok {
		return fmt.Errorf("%q: %w", step, apperrors.ErrUnknownStep)
	}
	if err := validate.Partial(f, fields...); err != nil {
		return err
	}
	if step == StepConfirm && !f.AgreeTerms {
		return apperrors.ErrTermsNotAccepted
	}
	return nil
}

// Prefill fills empty contact fields from remembered details
func (f Form) Prefill(c Contact) Form {
	fill := func(field *string, v string) {
		if *field == "" {
			*field = v
		}
	}
	fill(&f.FullName, c.FullName)
	fill(&f.Email, c.Email)
	fill(&f.Phone, c.Phone)
	fill(&f.Country, c.Country)
	return f
}

func (f Form) Contact() Contact {
	return Contact{FullName: f.FullName, Email: f.Email, Phone: f.Phone, Country: f.Country}
}

// Lead is the payload for the backend
func (f Form) Lead() models.Inquiry {
	return models.Inquiry{
		Tour:       f.TourName,
		FullName:   f.FullName,
		Email:      f.Email,
		Phone:      f.Phone,
		Country:    f.Country,
		TravelDate: f.TravelDate,
		Adults:     count(f.Adults),
		Children:   count(f.Children),
		Infants:    count(f.Infants),
		Message:    f.Message,
	}
}

// Contact is the remembered part of the form
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Country  string `json:"country,omitempty"`
}

// Text is the text sent through WhatsApp and as mail body
func (f Form) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello! I'm interested in the tour: %s\n\n", f.TourName)

	b.WriteString("Personal Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", f.FullName)
	fmt.Fprintf(&b, "Email: %s\n", f.Email)
	fmt.Fprintf(&b, "Phone: %s\n", f.Phone)
	if f.Country != "" {
		fmt.Fprintf(&b, "Country: %s\n", f.Country)
	}

	b.WriteString("\nTravel Details:\n")
	if f.TravelDate != "" {
		fmt.Fprintf(&b, "Travel Date: %s\n", f.TravelDate)
	}
	fmt.Fprintf(&b, "Adults: %s\n", count(f.Adults))
	fmt.Fprintf(&b, "Children: %s\n", count(f.Children))
	fmt.Fprintf(&b, "Infants: %s\n", count(f.Infants))

	if msg := strings.TrimSpace(f.Message); msg != "" {
		fmt.Fprintf(&b, "\nAdditional Message:\n%s\n", msg)
	}

	return b.String()
}

// Subject is the mail subject
func (f Form) Subject() string {
	return "Tour Inquiry: " + f.TourName
}

// WhatsAppURL builds https://wa.me/<digits>?text=<message>
func WhatsAppURL(number string, text string) string {
	return "https://wa.me/" + validate.Digits(number) + "?text=" + escape(text)
}

// MailtoURL builds mailto:<addr>?subject=..&body=..
func MailtoURL(address string, subject string, body string) string {
	return "mailto:" + address + "?subject=" + escape(subject) + "&body=" + escape(body)
}

// Links are the two channels the visitor can use to send the inquiry
type Links struct {
	WhatsApp string `json:"whatsapp"`
	Mailto   string `json:"mailto"`
}

func (f Form) Links(whatsappNumber, inquiryEmail string) Links {
	msg := f.Text()
	return Links{
		WhatsApp: WhatsAppURL(whatsappNumber, msg),
		Mailto:   MailtoURL(inquiryEmail, f.Subject(), msg),
	}
}

// escape is url.QueryEscape with spaces as %20, which both wa.me and mail clients expect
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func count(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}
