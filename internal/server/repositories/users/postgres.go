package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/dbx"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the users table migration. The unique indexes are
// what makes two racing signups resolve to exactly one winner; the INSERT
// below never pre-checks with a SELECT.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// duplicateKeyError maps a unique-violation error (SQLSTATE 23505) to the
// sentinel for the violated constraint, or nil when err is something else.
func duplicateKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return common.ErrDuplicateUsername
	case emailConstraint:
		return common.ErrDuplicateEmail
	default:
		return common.ErrDuplicateUsername
	}
}
