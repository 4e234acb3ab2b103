package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenPurpose tags a token with the flow it was issued for. An empty purpose
// is a plain login token; a purpose-tagged token must never be accepted where
// a login token is expected, and vice versa.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = ""
	PurposePasswordReset TokenPurpose = "password_reset"
)

const AccessTokenTTL = 30 * 24 * time.Hour

type tokenClaims struct {
	Purpose TokenPurpose `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed identity tokens. Tokens are
// integrity-protected, not encrypted: never put secrets in the payload.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for the given subject id with the given purpose and TTL.
func (s *TokenService) Issue(subjectID string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject id and purpose.
// Fails with ErrTokenExpired past expiry regardless of signature validity,
// and ErrTokenInvalid for anything else that does not parse or verify.
func (s *TokenService) Verify(tokenString string) (string, TokenPurpose, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrTokenExpired
		}
		return "", "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", ErrTokenInvalid
	}
	return claims.Subject, claims.Purpose, nil
}
