package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/models"
)

func (a *API) SubscribeNewsletter(ctx context.Context, req models.NewsletterSubscribe) (models.NewsletterStatus, error) {
	return post[models.NewsletterStatus](ctx, a, "newsletter/subscribe/", req)
}

// ConfirmNewsletter follows the emailed confirmation link.
// Backend outcomes are never errors: a consumed token is already_confirmed, an unknown one is invalid.
// Error is returned only together with the error outcome.
func (a *API) ConfirmNewsletter(ctx context.Context, token string) (models.NewsletterStatus, error) {
	return a.newsletterToken(ctx, "newsletter/confirm/", token, models.NewsletterConfirmed)
}

func (a *API) UnsubscribeNewsletter(ctx context.Context, token string) (models.NewsletterStatus, error) {
	return a.newsletterToken(ctx, "newsletter/unsubscribe/", token, models.NewsletterUnsubscribed)
}

func (a *API) newsletterToken(ctx context.Context, path string, token string, success string) (models.NewsletterStatus, error) {
	if token == "" {
		return models.NewsletterStatus{Status: models.NewsletterInvalid}, nil
	}

	st, err := get[models.NewsletterStatus](ctx, a, path+url.PathEscape(token)+"/", nil)
	if err == nil {
		if !knownOutcome(st.Status) {
			st.Status = success
		}
		return st, nil
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status == 0 {
		return models.NewsletterStatus{Status: models.NewsletterError}, err
	}

	// Backend reports consumed and unknown tokens as 4xx with status in the body
	var body models.NewsletterStatus
	if json.Unmarshal(apiErr.Body, &body) == nil && knownOutcome(body.Status) {
		if body.Message == "" {
			body.Message = apiErr.Message
		}
		return body, nil
	}

	switch apiErr.Status {
	case http.StatusNotFound, http.StatusBadRequest, http.StatusGone:
		return models.NewsletterStatus{Status: models.NewsletterInvalid, Message: apiErr.Message}, nil
	default:
		return models.NewsletterStatus{Status: models.NewsletterError, Message: apiErr.Message}, err
	}
}

func knownOutcome(status string) bool {
	switch status {
	case models.NewsletterConfirmed, models.NewsletterAlreadyConfirmed,
		models.NewsletterUnsubscribed, models.NewsletterAlreadyUnsubscribed,
		models.NewsletterInvalid:
		return true
	default:
		return false
	}
}
