package storefront

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string    `json:"token"`
	Customer *Customer `json:"customer"`
}

// Register creates a customer account in the tenant database and
// returns a signed token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	res, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		writeMessage(w, http.StatusBadRequest, "First name, email and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	if _, err := repos.Customers.FindByEmail(r.Context(), req.Email); err == nil {
		writeMessage(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, ErrNotFound) {
		h.log.ErrorContext(r.Context(), "customer lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.ErrorContext(r.Context(), "password hashing failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	customer := &Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
	}
	if err := repos.Customers.Create(r.Context(), customer); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeMessage(w, http.StatusConflict, "Email already registered")
			return
		}
		h.log.ErrorContext(r.Context(), "customer create failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tok, err := h.tokens.Issue(customer.ID.Hex(), res.StoreID, res.TenantID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issue failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: tok, Customer: customer})
}

// Login authenticates a customer against the tenant database.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	res, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	customer, err := repos.Customers.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.ErrorContext(r.Context(), "customer lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if bcrypt.CompareHashAndPassword(customer.PasswordHash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := h.tokens.Issue(customer.ID.Hex(), res.StoreID, res.TenantID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issue failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: tok, Customer: customer})
}
