// Package net holds transport agnostic request context helpers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID sets the request id the way chi's RequestID middleware does
// so RequestID works for contexts built outside the router, e.g. in tests
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context, "" when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
