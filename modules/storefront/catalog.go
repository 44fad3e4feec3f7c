package storefront

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ListProducts returns the tenant's active published products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	products, err := repos.Products.ListActive(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "product listing failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// SearchProducts matches the q parameter against product names and
// descriptions.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeMessage(w, http.StatusBadRequest, "Search query is required")
		return
	}
	products, err := repos.Products.Search(r.Context(), query)
	if err != nil {
		h.log.ErrorContext(r.Context(), "product search failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// ProductDetails returns one product by its slug.
func (h *Handler) ProductDetails(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	product, err := repos.Products.FindBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Product not found")
			return
		}
		h.log.ErrorContext(r.Context(), "product lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

// ListCategories returns the tenant's active categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	categories, err := repos.Categories.ListActive(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "category listing failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// ListOffers returns offers whose validity window covers now.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	offers, err := repos.Offers.ListCurrent(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "offer listing failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}
