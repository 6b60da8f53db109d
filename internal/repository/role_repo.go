package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepo(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

// HasRole reports whether the user holds the named role. The user_roles
// table is the primary source; if that query errors (e.g. the table is
// unreadable under the current grants) it falls back to the has_role()
// SQL function before giving up.
func (r *RoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var found string
	err := r.pool.QueryRow(ctx,
		"SELECT role FROM user_roles WHERE user_id = $1 AND role = $2",
		userID, role,
	).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	log.Printf("user_roles lookup failed for %s, trying has_role(): %v", userID, err)

	var has bool
	fnErr := r.pool.QueryRow(ctx, "SELECT has_role($1, $2)", userID, role).Scan(&has)
	if fnErr != nil {
		return false, fnErr
	}
	return has, nil
}

func (r *RoleRepo) Grant(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, role,
	)
	return err
}

func (r *RoleRepo) Revoke(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND role = $2",
		userID, role,
	)
	return err
}
