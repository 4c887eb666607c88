package store

import (
	"context"
	"fmt"
	"time"

	"foodbridge/internal/utils"
	"foodbridge/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

const userTableName = "users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	run     runner
	builder sq.StatementBuilderType
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := r.builder.
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	found, err := get(ctx, r.run, &user, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, fmt.Sprintf("failed to fetch user %s", userID))
	}
	if !found {
		return nil, types.ErrUserNotFound
	}

	return &user, nil
}

func (r *UserRepository) Users(ctx context.Context) ([]*types.User, error) {
	query, args, err := r.builder.
		Select(userColumns...).
		From(userTableName).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate users query: %w", err)
	}

	users := make([]*types.User, 0)
	err = sqlscan.Select(ctx, r.run, &users, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, "failed to fetch users")
	}

	return users, nil
}

// UserByEmailAndRole returns the oldest user registered with the given email
// under the given role.
func (r *UserRepository) UserByEmailAndRole(ctx context.Context, email string, role types.Role) (*types.User, error) {
	query, args, err := r.builder.
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"email": email, "role": role}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user by email query: %w", err)
	}

	var user types.User
	found, err := get(ctx, r.run, &user, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, "failed to fetch user by email")
	}
	if !found {
		return nil, types.ErrUserNotFound
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.builder.
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.run.ExecContext(ctx, query, args...)
	return wrapStoreError(err, "failed to create user")
}

// Update overwrites every column of the user. It reports ErrUserNotFound when
// no row matched.
func (r *UserRepository) Update(ctx context.Context, userID string, user *types.User) error {
	user.ID = userID
	user.UpdatedAt = time.Now().UTC()

	query, args, err := r.builder.
		Update(userTableName).
		SetMap(utils.StructToMap(user, "created_at")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user query: %w", err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStoreError(err, fmt.Sprintf("failed to update user %s", userID))
	}

	n, err := affected(res)
	if err != nil {
		return wrapStoreError(err, "failed to update user")
	}
	if n == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := r.builder.
		Delete(userTableName).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete user query for user %s: %w", userID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStoreError(err, fmt.Sprintf("failed to delete user %s", userID))
	}

	n, err := affected(res)
	if err != nil {
		return wrapStoreError(err, "failed to delete user")
	}
	if n == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
