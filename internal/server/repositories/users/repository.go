// Package users provides the credential store: persistence of user records
// keyed by unique username and email.
package users

import (
	"context"

	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

// Repository is the credential store contract. Create must be atomic with
// respect to concurrent creates racing on the same username or email: exactly
// one succeeds, the rest get the matching duplicate error. There are no
// update or delete operations; accounts are immutable after signup.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
