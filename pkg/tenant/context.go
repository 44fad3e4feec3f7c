package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithResolution adds a resolution to the context.
func WithResolution(ctx context.Context, res *Resolution) context.Context {
	return context.WithValue(ctx, contextKey{}, res)
}

// FromContext retrieves the resolution from the context.
func FromContext(ctx context.Context) (*Resolution, bool) {
	res, ok := ctx.Value(contextKey{}).(*Resolution)
	return res, ok
}

// IDFromContext retrieves just the tenant identifier from the context.
func IDFromContext(ctx context.Context) (string, bool) {
	res, ok := FromContext(ctx)
	if !ok || res == nil {
		return "", false
	}
	return res.TenantID, true
}

// MustFromContext retrieves the resolution from the context and panics if
// none is bound. Use only in handlers mounted behind the middleware.
func MustFromContext(ctx context.Context) *Resolution {
	res, ok := FromContext(ctx)
	if !ok || res == nil {
		panic("tenant: no resolution in context")
	}
	return res
}

// LoggerExtractor returns a logger context extractor that attaches the
// resolved tenant and store identifiers to every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		res, ok := FromContext(ctx)
		if !ok || res == nil {
			return slog.Attr{}, false
		}
		return slog.Group("tenant",
			slog.String("id", res.TenantID),
			slog.String("store_id", res.StoreID),
		), true
	}
}
