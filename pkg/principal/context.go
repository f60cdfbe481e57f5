package principal

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithContext attaches the principal to the context.
func WithContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext retrieves the principal from the context.
// Requests that never passed through the authentication middleware
// yield the anonymous principal.
func FromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(contextKey{}).(Principal)
	if !ok {
		return Anonymous()
	}
	return p
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the authenticated user ID from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p := FromContext(ctx); p.Authenticated() {
			return slog.String("user_id", p.UserID().String()), true
		}
		return slog.Attr{}, false
	}
}
