package middleware

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Validator validates HMAC-signed identity tokens. The signing key is
// shared with the identity provider.
type HS256Validator struct {
	key []byte
}

// NewHS256Validator creates a validator for the given signing key.
func NewHS256Validator(key string) *HS256Validator {
	return &HS256Validator{key: []byte(key)}
}

type identityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies the token, returning the subject and
// email claims.
func (v *HS256Validator) ValidateToken(tokenString string) (*Claims, error) {
	var claims identityClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return &Claims{Subject: claims.Subject, Email: claims.Email}, nil
}
