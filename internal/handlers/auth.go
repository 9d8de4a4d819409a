package handlers

import (
	"net/http"

	"github.com/nkiryanov/tourfront/internal/handlers/middleware"
	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/models"
	"github.com/nkiryanov/tourfront/internal/session"
)

type AuthHandler struct {
	loginPath string
}

func NewAuth(loginPath string) *AuthHandler {
	return &AuthHandler{loginPath: loginPath}
}

func (h *AuthHandler) Handler() http.Handler {
	withAuth := middleware.RequireAuth(h.loginPath)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /logout", h.logout)
	mux.HandleFunc("GET /session", h.session)
	mux.HandleFunc("DELETE /error", h.clearError)
	mux.HandleFunc("POST /password-reset", h.passwordReset)
	mux.HandleFunc("POST /password-reset/confirm", h.passwordResetConfirm)
	mux.Handle("PATCH /profile", withAuth(http.HandlerFunc(h.updateProfile)))

	return mux
}

type sessionFailure struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Session session.State `json:"session"`
}

// renderSessionFailure shows the message picked by the session, status follows the backend answer.
// A 401 on the credentials form itself is a rejected login, not an expired session.
func renderSessionFailure(w http.ResponseWriter, err error, st session.State, credentialsForm bool) {
	status := http.StatusBadGateway
	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.SessionExpired && !credentialsForm:
			render.SessionExpired(w, apiErr.Redirect)
			return
		case apiErr.Status >= 400 && apiErr.Status < 500:
			status = apiErr.Status
		}
	}
	render.JSONStatus(w, sessionFailure{Error: "auth_failed", Message: st.Error, Session: st}, status)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "login") {
		return
	}
	err = v.Session.Login(r.Context(), data.Email, data.Password)
	v.Forms.Finish("login", err)
	if err != nil {
		renderSessionFailure(w, err, v.Session.Snapshot(), true)
		return
	}

	render.JSON(w, v.Session.Snapshot())
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.RegisterRequest](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "register") {
		return
	}
	err = v.Session.Register(r.Context(), data)
	v.Forms.Finish("register", err)
	if err != nil {
		renderSessionFailure(w, err, v.Session.Snapshot(), true)
		return
	}

	render.JSONStatus(w, v.Session.Snapshot(), http.StatusCreated)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}

	if err := v.Session.Logout(r.Context()); err != nil {
		render.ServiceError(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}
	render.JSON(w, v.Session.Snapshot())
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	render.JSON(w, v.Session.Snapshot())
}

func (h *AuthHandler) clearError(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	v.Session.ClearError()
	render.JSON(w, v.Session.Snapshot())
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.ProfileUpdate](w, r)
	if err != nil {
		return
	}

	if err := v.Session.UpdateProfile(r.Context(), data); err != nil {
		renderSessionFailure(w, err, v.Session.Snapshot(), false)
		return
	}
	render.JSON(w, v.Session.Snapshot())
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) passwordReset(w http.ResponseWriter, r *http.Request) {
	type ResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[ResetRequest](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "password-reset") {
		return
	}
	err = v.API.RequestPasswordReset(r.Context(), data.Email)
	v.Forms.Finish("password-reset", err)
	if err != nil {
		render.BackendError(w, err, "Not found", "")
		return
	}
	render.JSON(w, messageResponse{Message: "If the address is registered, a reset link has been sent."})
}

func (h *AuthHandler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	v, ok := current(w, r)
	if !ok {
		return
	}
	data, err := render.BindAndValidate[models.PasswordResetConfirm](w, r)
	if err != nil {
		return
	}

	if !begin(w, v, "password-reset-confirm") {
		return
	}
	err = v.API.ConfirmPasswordReset(r.Context(), data)
	v.Forms.Finish("password-reset-confirm", err)
	if err != nil {
		render.BackendError(w, err, "Reset link is invalid or expired", "/password-reset")
		return
	}
	render.JSON(w, messageResponse{Message: "Password has been reset. You can log in now."})
}
