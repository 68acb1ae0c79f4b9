package requestctx

import "context"

type requestContextKey struct{}

// WithContext publishes the request snapshot into the context chain for the
// duration of request handling.
func WithContext(ctx context.Context, rc Context) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext retrieves the request snapshot. Outside an instrumented
// request (background jobs, tests, console usage) it returns the zero
// Context and false rather than failing.
func FromContext(ctx context.Context) (Context, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(Context)
	return rc, ok
}

// VisitorID returns the resolved visitor identifier, or "" outside a request.
func VisitorID(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.VisitorID
}

// SessionID returns the resolved session identifier, or "" outside a request.
func SessionID(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.SessionID
}

// UserID returns the authenticated user identifier, or "" when anonymous
// or outside a request.
func UserID(ctx context.Context) string {
	rc, _ := FromContext(ctx)
	return rc.UserID
}
