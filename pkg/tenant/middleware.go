package tenant

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Middleware binds the tenant resolution to every request passing through
// it. The store identifier is read from the configured chi route
// parameter; binding is all-or-nothing, so handlers behind this middleware
// either see a complete Resolution or the request was already rejected.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		param:          "storeID",
		errorHandler:   defaultErrorHandler,
		resolveTimeout: 15 * time.Second,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			storeID := strings.TrimSpace(chi.URLParam(r, cfg.param))
			if storeID == "" {
				cfg.errorHandler(w, r, ErrMissingStoreID)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), cfg.resolveTimeout)
			res, err := resolver.Resolve(ctx, storeID)
			cancel()
			if err != nil {
				cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
					slog.String("store_id", storeID), slog.Any("error", err))
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
		})
	}
}

// RequireTenant guards routes that must only run with a bound tenant. It
// is a safety net for handlers mounted outside the resolving middleware.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if res, ok := FromContext(r.Context()); !ok || res == nil {
				errorHandler(w, r, ErrNoResolutionInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
