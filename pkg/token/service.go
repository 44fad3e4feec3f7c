package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleCustomer is the role stamped into tokens issued by the storefront
// login and registration endpoints.
const RoleCustomer = "customer"

// CustomerClaims is the payload of a storefront customer token.
type CustomerClaims struct {
	UserID   string `json:"userId"`
	StoreID  string `json:"storeId"`
	TenantID string `json:"tenantId,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Config represents the configuration for the token service.
type Config struct {
	Secret string        `env:"JWT_SECRET,required"`    // Secret signs customer tokens; at least 32 bytes recommended.
	TTL    time.Duration `env:"JWT_TTL" envDefault:"1h"` // TTL is the lifetime of issued tokens.
}

// Service issues and parses customer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a token service from config.
func New(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: []byte(cfg.Secret), ttl: ttl}, nil
}

// Issue mints a signed token for the given customer identity.
func (s *Service) Issue(userID, storeID, tenantID string) (string, error) {
	now := time.Now()
	claims := CustomerClaims{
		UserID:   userID,
		StoreID:  storeID,
		TenantID: tenantID,
		Role:     RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims.
func (s *Service) Parse(tokenString string) (*CustomerClaims, error) {
	var claims CustomerClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrExpiredToken, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return &claims, nil
}
