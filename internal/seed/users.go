package seed

import (
	"context"
	"errors"
	"fmt"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"
)

type demoUserSeed struct {
	ID    string
	Name  string
	Email string
	Role  types.Role
}

var demoUsers = []demoUserSeed{
	{ID: "seed-donor-alice", Name: "Alice", Email: "alice@example.org", Role: types.RoleDonor},
	{ID: "seed-donor-bakery", Name: "Corner Bakery", Email: "orders@cornerbakery.example", Role: types.RoleDonor},
	{ID: "seed-ngo-helpers", Name: "Helpers", Email: "help@helpers.example", Role: types.RoleNGO},
	{ID: "seed-ngo-foodbank", Name: "City Food Bank", Email: "intake@foodbank.example", Role: types.RoleNGO},
}

const demoPassword = "changeme"

func SeedUsers(ctx context.Context, userRepo *store.UserRepository) error {
	seeded := 0
	for _, demoUser := range demoUsers {
		existing, err := userRepo.User(ctx, demoUser.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return fmt.Errorf("failed to fetch demo user %s: %w", demoUser.ID, err)
			}

			newUser := &types.User{
				ID:       demoUser.ID,
				Name:     demoUser.Name,
				Email:    demoUser.Email,
				Password: demoPassword,
				Role:     demoUser.Role,
			}

			if err := userRepo.Create(ctx, newUser); err != nil {
				return fmt.Errorf("failed to create demo user %s: %w", demoUser.ID, err)
			}
			seeded++
			continue
		}

		existing.Name = demoUser.Name
		existing.Email = demoUser.Email
		existing.Role = demoUser.Role

		if err := userRepo.Update(ctx, demoUser.ID, existing); err != nil {
			return fmt.Errorf("failed to update demo user %s: %w", demoUser.ID, err)
		}
		seeded++
	}

	fmt.Printf("Demo users seeded: %d upserted\n", seeded)
	return nil
}
