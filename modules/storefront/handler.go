package storefront

import (
	"log/slog"
	"net/http"

	"github.com/yespstudio/storefront/pkg/tenant"
	"github.com/yespstudio/storefront/pkg/token"
)

// Handler serves the storefront API for whichever tenant the request
// was bound to. It holds no per-tenant state itself.
type Handler struct {
	repos  RepositorySource
	tokens *token.Service
	log    *slog.Logger
}

// NewHandler creates a storefront handler.
func NewHandler(repos RepositorySource, tokens *token.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repos: repos, tokens: tokens, log: log}
}

// resolution pulls the tenant binding placed by the middleware. A
// missing binding is a routing mistake, not a client error.
func (h *Handler) resolution(w http.ResponseWriter, r *http.Request) (*tenant.Resolution, bool) {
	res, ok := tenant.FromContext(r.Context())
	if !ok {
		h.log.ErrorContext(r.Context(), "handler reached without tenant resolution", slog.String("path", r.URL.Path))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return res, true
}

func (h *Handler) tenantRepos(w http.ResponseWriter, r *http.Request) (*tenant.Resolution, *Repositories, bool) {
	res, ok := h.resolution(w, r)
	if !ok {
		return nil, nil, false
	}
	return res, h.repos.For(res.Handle), true
}
