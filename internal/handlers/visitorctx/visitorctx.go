package visitorctx

import (
	"context"

	"github.com/nkiryanov/tourfront/internal/visitor"
)

type ctxKey string

const visitorKey ctxKey = "visitor"

// Create a new context with the visitor
func New(ctx context.Context, v *visitor.Visitor) context.Context {
	return context.WithValue(ctx, visitorKey, v)
}

// Extract the visitor from the context
func FromContext(ctx context.Context) (*visitor.Visitor, bool) {
	v, ok := ctx.Value(visitorKey).(*visitor.Visitor)
	return v, ok && v != nil
}
