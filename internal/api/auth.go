package api

import (
	"context"
	"net/http"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	return post[models.AuthResponse](ctx, a, "auth/login/", credentials{Email: email, Password: password})
}

func (a *API) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return post[models.AuthResponse](ctx, a, "auth/register/", req)
}

// Logout invalidates refresh token on the backend
func (a *API) Logout(ctx context.Context, refresh string) error {
	return a.r.Request(ctx, http.MethodPost, "auth/logout/", map[string]string{"refresh": refresh}, nil, nil)
}

func (a *API) RefreshToken(ctx context.Context, refresh string) (models.TokenPair, error) {
	return post[models.TokenPair](ctx, a, "auth/token/refresh/", map[string]string{"refresh": refresh})
}

func (a *API) RequestPasswordReset(ctx context.Context, email string) error {
	return a.r.Request(ctx, http.MethodPost, "auth/password-reset/", map[string]string{"email": email}, nil, nil)
}

func (a *API) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) error {
	return a.r.Request(ctx, http.MethodPost, "auth/password-reset/confirm/", req, nil, nil)
}

func (a *API) Me(ctx context.Context) (models.User, error) {
	return get[models.User](ctx, a, "auth/me/", nil)
}

func (a *API) UpdateMe(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	return apiclient.Do[models.User](ctx, a.r, http.MethodPatch, "auth/me/", upd, nil)
}
