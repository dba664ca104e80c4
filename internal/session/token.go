// Package session issues and validates matching-session tracking tokens.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the session and user identity inside a tracking token.
type Claims struct {
	SessionID string    `json:"session_id"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates tracking tokens handed back to matching
// callers. The token's lifetime matches the session cache's logical TTL, so
// a valid token always refers to a session that may still be retrievable.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a token service.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), lifetime: lifetime}
}

// Issue generates a signed tracking token for a session. userID may be
// uuid.Nil for anonymous matching runs.
func (s *TokenService) Issue(sessionID string, userID uuid.UUID) (string, error) {
	now := time.Now()

	claims := &Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign tracking token: %w", err)
	}
	return signed, nil
}

// Validate parses a tracking token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracking token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("tracking token is not valid")
	}
	return claims, nil
}
