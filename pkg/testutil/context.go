package testutil

import (
	"context"
	"net/http"

	"guestpass/internal/platform/middleware"
)

// WithCaller adds the caller identity to the request context, simulating what
// the auth middleware does for an authenticated request. Empty values are
// skipped so tests can model partial identities.
func WithCaller(req *http.Request, subject, email string) *http.Request {
	ctx := req.Context()
	if subject != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeySubject, subject)
	}
	if email != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyEmail, email)
	}
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
