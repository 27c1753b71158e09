// Package session carries the authenticated caller identity through request
// context. Handlers read it explicitly instead of relying on ambient state.
package session

import "context"

// Session identifies the authenticated caller of a request.
type Session struct {
	UserID string
}

type contextKey struct{}

// WithContext returns a context carrying the session.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session, if any, from the context.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
