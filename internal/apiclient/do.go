package apiclient

import (
	"context"
	"net/url"
)

// Requester is what resource accessors need from the client
type Requester interface {
	Request(ctx context.Context, method string, path string, body any, query url.Values, out any) error
}

// Do sends request and decodes response into T
func Do[T any](ctx context.Context, r Requester, method string, path string, body any, query url.Values) (T, error) {
	var out T
	err := r.Request(ctx, method, path, body, query, &out)
	return out, err
}
