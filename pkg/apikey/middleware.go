// Package apikey authenticates server-to-server calls with the per-store
// shared secret held in the control-plane directory.
//
// The x-api-key header is compared in constant time against the secret of
// the store named in the URL. Verification happens before any tenant
// database is touched, so a caller with a wrong key never reaches tenant
// data.
package apikey

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yespstudio/storefront/pkg/directory"
)

// HeaderName carries the store API key on server-to-server requests.
const HeaderName = "x-api-key"

var (
	// ErrMissingAPIKey is returned when the header is absent.
	ErrMissingAPIKey = errors.New("missing x-api-key")

	// ErrInvalidAPIKey is returned when the key does not match the store secret.
	ErrInvalidAPIKey = errors.New("invalid x-api-key for store")
)

// Directory looks up store records in the control plane.
type Directory interface {
	Lookup(ctx context.Context, storeID string) (*directory.StoreRecord, error)
}

// Option configures the middleware.
type Option func(*config)

type config struct {
	param  string
	logger *slog.Logger
}

// WithPathParam sets the chi route parameter carrying the store
// identifier. Defaults to "storeID".
func WithPathParam(name string) Option {
	return func(c *config) {
		if name != "" {
			c.param = name
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

// Middleware verifies the x-api-key header against the secret of the
// store identified in the request path.
func Middleware(dir Directory, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		param:  "storeID",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID := strings.TrimSpace(chi.URLParam(r, cfg.param))
			apiKey := r.Header.Get(HeaderName)

			if storeID == "" || apiKey == "" {
				respondError(w, http.StatusBadRequest, "Missing storeId or x-api-key")
				return
			}

			record, err := dir.Lookup(r.Context(), storeID)
			if err != nil {
				if errors.Is(err, directory.ErrStoreNotFound) {
					respondError(w, http.StatusNotFound, "Invalid storeId.")
					return
				}
				cfg.logger.ErrorContext(r.Context(), "api key verification failed",
					slog.String("store_id", storeID), slog.Any("error", err))
				respondError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			if record.SecretAPIKey == "" ||
				subtle.ConstantTimeCompare([]byte(record.SecretAPIKey), []byte(apiKey)) != 1 {
				cfg.logger.WarnContext(r.Context(), "rejected invalid api key",
					slog.String("store_id", storeID))
				respondError(w, http.StatusForbidden, "Invalid x-api-key for store.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
