package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/handlers/visitorctx"
	"github.com/nkiryanov/tourfront/internal/visitor"
)

const VisitorCookie = "tf_visitor"

type registry interface {
	Get(ctx context.Context, id uuid.UUID) (*visitor.Visitor, error)
	TTL() time.Duration
}

type errorLogger interface {
	Error(msg string, args ...any)
}

// VisitorMiddleware identifies the browser by cookie, issuing a new id when it is missing or malformed,
// and puts its bundle to request context
func VisitorMiddleware(reg registry, secure bool, l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := visitorID(r)
			if !ok {
				id = uuid.New()
			}

			// Refresh cookie on every response so active visitors never lose it
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id.String(),
				Path:     "/",
				MaxAge:   int(reg.TTL().Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			v, err := reg.Get(r.Context(), id)
			if err != nil {
				l.Error("Can't restore visitor", "visitor", id, "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(visitorctx.New(r.Context(), v)))
		})
	}
}

// RequireAuth lets through only authenticated visitors; others are sent to loginPath
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, ok := visitorctx.FromContext(r.Context())
			if !ok || !v.Session.Snapshot().IsAuthenticated {
				render.Unauthorized(w, loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func visitorID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(VisitorCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
