// Package auth implements the credential primitives: password hashing and
// bearer-token issuance/verification. It has no storage or transport
// dependencies; services wire it to the user repository.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues a signed HS256 token for the given subject (username),
// valid for validityDuration from now. The claim set is the standard
// sub/iat/exp triple; clients should treat the string as opaque.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken validates tokenString and returns its subject.
//
// The signing method is pinned to HS256; expired tokens map to
// common.ErrTokenExpired and every other failure (malformed input, bad
// signature, empty subject) to common.ErrInvalidToken. Callers at the
// external boundary must collapse both into a uniform unauthorized result.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
