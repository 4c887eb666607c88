package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/sirupsen/logrus"
)

func (c *Coordinator) CreateUser(ctx context.Context, name, email, password string, role types.Role) (*types.User, error) {
	user := &types.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     role,
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user created")

	return user, nil
}

func (c *Coordinator) Users(ctx context.Context) ([]*types.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	users, err := c.store.Users.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Coordinator) User(ctx context.Context, userID string) (*types.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.store.Users.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

// OrganizationByEmail resolves the ngo registered under email.
func (c *Coordinator) OrganizationByEmail(ctx context.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: ngo email is required", types.ErrInvalidInput)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.store.Users.UserByEmailAndRole(ctx, email, types.RoleNGO)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("%w with email %s", types.ErrNGONotFound, email)
		}
		return nil, fmt.Errorf("resolve ngo by email: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of update to the user. The role may
// only change while the user owns no donations and holds no requests.
func (c *Coordinator) UpdateUser(ctx context.Context, userID string, update types.UserUpdate) (*types.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var updated *types.User
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		user, err := tx.Users.User(ctx, userID)
		if err != nil {
			return err
		}
		previousRole := user.Role

		if update.Name != nil {
			user.Name = strings.TrimSpace(*update.Name)
		}
		if update.Email != nil {
			user.Email = strings.TrimSpace(*update.Email)
		}
		if update.Password != nil {
			user.Password = *update.Password
		}
		if update.Role != nil {
			user.Role = *update.Role
		}

		if err := validateUser(user); err != nil {
			return err
		}

		if user.Role != previousRole {
			if err := ensureUnreferenced(ctx, tx, userID, "change role of"); err != nil {
				return err
			}
		}

		if err := tx.Users.Update(ctx, userID, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, c.conflict("update_user", fmt.Errorf("update user %s: %w", userID, err), logrus.Fields{"user_id": userID})
	}

	c.logger.WithField("user_id", userID).Info("user updated")

	return updated, nil
}

// ensureUnreferenced fails with ErrConflict while donations or requests still
// point at the user.
func ensureUnreferenced(ctx context.Context, tx store.Repositories, userID, action string) error {
	donations, err := tx.Donations.DonationsByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(donations) > 0 {
		return fmt.Errorf("%w: cannot %s user %s, still owns %d donations", types.ErrConflict, action, userID, len(donations))
	}

	requests, err := tx.Requests.RequestsByNGO(ctx, userID)
	if err != nil {
		return err
	}
	if len(requests) > 0 {
		return fmt.Errorf("%w: cannot %s user %s, still holds %d requests", types.ErrConflict, action, userID, len(requests))
	}

	return nil
}

// DeleteUser removes a user. Users still referenced by donations or requests
// are kept and the call fails with a conflict.
func (c *Coordinator) DeleteUser(ctx context.Context, userID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		if err := ensureUnreferenced(ctx, tx, userID, "delete"); err != nil {
			return err
		}

		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return c.conflict("delete_user", fmt.Errorf("delete user %s: %w", userID, err), logrus.Fields{"user_id": userID})
	}

	c.logger.WithField("user_id", userID).Info("user deleted")

	return nil
}

func validateUser(user *types.User) error {
	if err := ValidateRole(user.Role); err != nil {
		return err
	}
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", types.ErrInvalidInput)
	}
	if user.Email == "" {
		return fmt.Errorf("%w: email is required", types.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: %q is not a valid email address", types.ErrInvalidInput, user.Email)
	}
	if user.Password == "" {
		return fmt.Errorf("%w: password is required", types.ErrInvalidInput)
	}
	return nil
}
