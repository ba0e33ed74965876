package otp

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims bind a verification token to one email and one workflow.
// The jti (RegisteredClaims.ID) is what makes the token single-use: it is
// marked spent in the code store when a reservation succeeds.
type TokenClaims struct {
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates workflow tokens. Verification tokens are
// short-lived; management tokens live long enough for the customer to come
// back to their booking.
type TokenManager struct {
	secret    []byte
	verifyTTL time.Duration
	manageTTL time.Duration
}

func NewTokenManager(secret string, verifyTTL, manageTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		verifyTTL: verifyTTL,
		manageTTL: manageTTL,
	}
}

// Generate mints a signed token for the given email and purpose.
func (m *TokenManager) Generate(email string, purpose Purpose) (string, error) {
	now := time.Now().UTC()

	ttl := m.verifyTTL
	if purpose == PurposeManage {
		ttl = m.manageTTL
	}

	claims := &TokenClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign otp token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims. Expiry is reported as
// ErrTokenExpired so callers can tell the customer to request a new code;
// every other failure is ErrTokenInvalid and ends the attempt.
func (m *TokenManager) Parse(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RemainingTTL reports how long the claims stay valid, used to bound the
// spent-token marker's lifetime.
func (c *TokenClaims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
