package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/handlers/render"
	"github.com/nkiryanov/tourfront/internal/handlers/visitorctx"
	"github.com/nkiryanov/tourfront/internal/visitor"
)

// current returns the visitor put to context by middleware or renders an error
func current(w http.ResponseWriter, r *http.Request) (*visitor.Visitor, bool) {
	v, ok := visitorctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
	}
	return v, ok
}

// begin marks form as submitting. Repeated submission while the first one runs is rejected.
// Caller must report the result with v.Forms.Finish
func begin(w http.ResponseWriter, v *visitor.Visitor, form string) bool {
	if err := v.Forms.Begin(form); err != nil {
		render.FormError(w, err)
		return false
	}
	return true
}

func asAPIError(err error) (*apiclient.APIError, bool) {
	var apiErr *apiclient.APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 0
	}
	return page
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		render.NotFound(w, "Not found", "")
		return 0, false
	}
	return id, true
}
