// Package services contains the application services sitting between the
// transport layer and repositories/external clients.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/server/auth"
	"github.com/dmitrijs2005/fincontext/internal/server/config"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
	"github.com/dmitrijs2005/fincontext/internal/server/repositories/users"
)

// UserService implements the authentication contract: signup, login and
// per-request token authentication.
type UserService struct {
	repo          users.Repository
	argon         auth.ArgonParams
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:          repo,
		argon:         auth.DefaultArgon,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// Signup registers a new account. Username and email must be unique; the
// duplicate sentinels pass through so the caller can report which field
// collided. Hashing runs before the store is touched and holds no locks.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {

	hash, err := auth.HashPassword(s.argon, password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown username
// and wrong password both return ErrorInvalidCredentials; the two cases are
// indistinguishable to the caller to prevent username enumeration.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Authenticate resolves a presented token to the account it belongs to.
// Every failure mode (malformed token, bad signature, expiry, a subject that
// no longer exists) collapses to ErrorUnauthorized; the distinction is
// internal diagnostics only and never reaches the client.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {

	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
