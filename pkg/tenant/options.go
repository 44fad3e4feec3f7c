package tenant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yespstudio/storefront/pkg/directory"
)

// ErrorHandler translates resolution failures into HTTP responses. Lower
// layers never write to the response themselves.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	param          string
	errorHandler   ErrorHandler
	skipPaths      []string
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithPathParam sets the chi route parameter carrying the store
// identifier. Defaults to "storeID".
func WithPathParam(name string) Option {
	return func(c *config) {
		if name != "" {
			c.param = name
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution.
func WithSkipPaths(paths []string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithResolveTimeout bounds the directory lookup plus connection
// acquisition for a single request. Exceeding it fails the request as
// service-unavailable instead of hanging the caller.
func WithResolveTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.resolveTimeout = d
		}
	}
}

// WithLogger sets the middleware logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingStoreID):
		respondError(w, http.StatusBadRequest, "Store ID is required in the URL.")
	case errors.Is(err, ErrStoreNotFound):
		respondError(w, http.StatusNotFound, "Store not found or invalid storeId.")
	case errors.Is(err, ErrConnectionFailed):
		respondError(w, http.StatusServiceUnavailable, "Store database is unavailable.")
	case errors.Is(err, directory.ErrIntegrity):
		respondError(w, http.StatusInternalServerError, "Store configuration is inconsistent.")
	case errors.Is(err, ErrNoResolutionInContext):
		respondError(w, http.StatusInternalServerError, "Tenant context is not bound.")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
