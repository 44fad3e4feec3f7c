package token

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yespstudio/storefront/pkg/tenant"
)

const bearerPrefix = "Bearer "

// ExtractBearer reads the token from the Authorization header.
func ExtractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingToken
	}
	return strings.TrimPrefix(header, bearerPrefix), nil
}

// RequireCustomer rejects requests without a valid customer token.
//
// When a tenant resolution is already bound to the request, the token's
// tenant claim is cross-checked against it and mismatches are rejected:
// the directory lookup is the trust boundary, the token claim is not.
func RequireCustomer(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractBearer(r)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "No token provided, authorization denied")
				return
			}

			claims, err := svc.Parse(tokenString)
			if err != nil {
				respondError(w, http.StatusForbidden, "Token is not valid or expired")
				return
			}

			if res, ok := tenant.FromContext(r.Context()); ok && res != nil {
				if err := verifyTenantClaim(claims, res); err != nil {
					respondError(w, http.StatusForbidden, "Token is not valid for this store")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// verifyTenantClaim fails closed: a token claiming a different tenant or
// store than the one resolved from the directory is rejected. Empty
// claims are tolerated for tokens minted before the claim was added.
func verifyTenantClaim(claims *CustomerClaims, res *tenant.Resolution) error {
	if claims.TenantID != "" && !strings.EqualFold(claims.TenantID, res.TenantID) {
		return errors.Join(ErrTenantMismatch,
			errors.New("claimed "+claims.TenantID+", resolved "+res.TenantID))
	}
	if claims.StoreID != "" && claims.StoreID != res.StoreID {
		return ErrTenantMismatch
	}
	return nil
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
