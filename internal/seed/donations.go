package seed

import (
	"context"
	"fmt"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"
)

type demoDonationSeed struct {
	UserID   string
	FoodItem string
	Quantity int
	Expiry   string
}

var demoDonations = []demoDonationSeed{
	{UserID: "seed-donor-alice", FoodItem: "Rice", Quantity: 10, Expiry: "2026-12-01"},
	{UserID: "seed-donor-alice", FoodItem: "Canned beans", Quantity: 24, Expiry: "2027-06-30"},
	{UserID: "seed-donor-bakery", FoodItem: "Bread loaves", Quantity: 15, Expiry: "2026-10-25"},
}

// SeedDonations creates the demo donations for every demo donor that has none
// yet, so running it twice does not duplicate them.
func SeedDonations(ctx context.Context, donationRepo *store.DonationRepository) error {
	owned := map[string]bool{}
	created := 0

	for _, demo := range demoDonations {
		has, ok := owned[demo.UserID]
		if !ok {
			existing, err := donationRepo.DonationsByUser(ctx, demo.UserID)
			if err != nil {
				return fmt.Errorf("failed to fetch donations for demo donor %s: %w", demo.UserID, err)
			}
			has = len(existing) > 0
			owned[demo.UserID] = has
		}
		if has {
			continue
		}

		expiry, err := types.ParseDate(demo.Expiry)
		if err != nil {
			return err
		}

		donation := &types.Donation{
			UserID:     demo.UserID,
			FoodItem:   demo.FoodItem,
			Quantity:   demo.Quantity,
			ExpiryDate: expiry,
			Status:     types.DonationStatusAvailable,
		}
		if err := donationRepo.Create(ctx, donation); err != nil {
			return fmt.Errorf("failed to create demo donation %s: %w", demo.FoodItem, err)
		}
		created++
	}

	fmt.Printf("Demo donations seeded: %d created\n", created)
	return nil
}
