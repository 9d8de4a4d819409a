package models

// Newsletter token outcomes
const (
	NewsletterConfirmed           = "confirmed"
	NewsletterAlreadyConfirmed    = "already_confirmed"
	NewsletterUnsubscribed        = "unsubscribed"
	NewsletterAlreadyUnsubscribed = "already_unsubscribed"
	NewsletterInvalid             = "invalid"
	NewsletterError               = "error"
)

type NewsletterStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Email   string `json:"email,omitempty"`
}

type NewsletterSubscribe struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"max=100"`
}
