package api

import (
	"context"
	"net/http"

	"github.com/nkiryanov/tourfront/internal/models"
)

func (a *API) SendContactMessage(ctx context.Context, msg models.ContactMessage) error {
	return a.r.Request(ctx, http.MethodPost, "contact/messages/", msg, nil, nil)
}

func (a *API) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	return get[[]models.FAQ](ctx, a, "contact/faqs/", nil)
}

func (a *API) ListOffices(ctx context.Context) ([]models.Office, error) {
	return get[[]models.Office](ctx, a, "contact/offices/", nil)
}

func (a *API) SubmitInquiry(ctx context.Context, inq models.Inquiry) error {
	return a.r.Request(ctx, http.MethodPost, "contact/inquiries/", inq, nil, nil)
}
