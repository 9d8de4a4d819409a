// Package api groups backend endpoints by resource. Each method is one HTTP call, nothing more.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nkiryanov/tourfront/internal/apiclient"
)

var _ apiclient.Requester = (*apiclient.Client)(nil)

type API struct {
	r apiclient.Requester
}

func New(r apiclient.Requester) *API {
	return &API{r: r}
}

func get[T any](ctx context.Context, a *API, path string, query url.Values) (T, error) {
	return apiclient.Do[T](ctx, a.r, http.MethodGet, path, nil, query)
}

func post[T any](ctx context.Context, a *API, path string, body any) (T, error) {
	return apiclient.Do[T](ctx, a.r, http.MethodPost, path, body, nil)
}

func pageQuery(q url.Values, page int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}
