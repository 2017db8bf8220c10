// Package common defines shared constants and sentinel errors used across
// FinContext components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. Both values are deliberately uniform: login collapses
	// "unknown user" and "wrong password" into ErrorInvalidCredentials, and
	// token verification collapses every failure mode (malformed, bad
	// signature, expired, subject gone) into ErrorUnauthorized. A caller
	// must not be able to tell which case occurred.
	ErrorInvalidCredentials = errors.New("invalid username or password")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Token parsing errors (internal diagnostics only, never exposed).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
