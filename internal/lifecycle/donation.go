package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/sirupsen/logrus"
)

// CreateDonation publishes a donation owned by the donor ownerID. It starts
// out available.
func (c *Coordinator) CreateDonation(ctx context.Context, ownerID, foodItem string, quantity int, expiryDate string) (*types.Donation, error) {
	foodItem = strings.TrimSpace(foodItem)
	if foodItem == "" {
		return nil, fmt.Errorf("%w: food item is required", types.ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer, got %d", types.ErrInvalidInput, quantity)
	}
	expiry, err := types.ParseDate(strings.TrimSpace(expiryDate))
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	owner, err := c.store.Users.User(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	if owner.Role != types.RoleDonor {
		return nil, fmt.Errorf("%w: user %s is not a donor", types.ErrInvalidInput, ownerID)
	}

	donation := &types.Donation{
		UserID:     ownerID,
		FoodItem:   foodItem,
		Quantity:   quantity,
		ExpiryDate: expiry,
		Status:     types.DonationStatusAvailable,
	}
	if err := c.store.Donations.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"donation_id": donation.ID,
		"user_id":     ownerID,
		"quantity":    quantity,
	}).Info("donation created")

	return donation, nil
}

// AvailableDonations lists donations still open to requests. No ordering is
// guaranteed.
func (c *Coordinator) AvailableDonations(ctx context.Context) ([]*types.Donation, error) {
	return c.DonationsByStatus(ctx, types.DonationStatusAvailable)
}

func (c *Coordinator) DonationsByStatus(ctx context.Context, status types.DonationStatus) ([]*types.Donation, error) {
	if err := ValidateDonationStatus(status); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	donations, err := c.store.Donations.DonationsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list %s donations: %w", status, err)
	}
	return donations, nil
}

// Donation returns the donation with every request made against it.
func (c *Coordinator) Donation(ctx context.Context, donationID string) (*types.DonationDetail, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var detail *types.DonationDetail
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		donation, err := tx.Donations.Donation(ctx, donationID)
		if err != nil {
			return err
		}

		requests, err := tx.Requests.RequestsByDonation(ctx, donationID)
		if err != nil {
			return err
		}

		detail = &types.DonationDetail{Donation: donation, Requests: requests}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get donation %s: %w", donationID, err)
	}

	return detail, nil
}

// TransitionDonation moves a donation one step along
// available -> accepted -> distributed. Leaving available rejects every
// request still pending against the donation in the same transaction.
func (c *Coordinator) TransitionDonation(ctx context.Context, donationID string, to types.DonationStatus) (*types.Donation, error) {
	if err := ValidateDonationStatus(to); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		from     types.DonationStatus
		rejected int64
		updated  *types.Donation
	)
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		current, err := tx.Donations.Donation(ctx, donationID)
		if err != nil {
			return err
		}
		from = current.Status

		if err := validateDonationTransition(from, to); err != nil {
			return err
		}

		ok, err := tx.Donations.CompareAndSetStatus(ctx, donationID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: donation %s changed status concurrently", types.ErrConflict, donationID)
		}

		if from == types.DonationStatusAvailable {
			rejected, err = tx.Requests.RejectPending(ctx, donationID, "")
			if err != nil {
				return err
			}
		}

		updated, err = tx.Donations.Donation(ctx, donationID)
		return err
	})
	if err != nil {
		return nil, c.conflict("transition_donation", fmt.Errorf("transition donation %s: %w", donationID, err), logrus.Fields{
			"donation_id": donationID,
			"status":      to,
		})
	}

	c.metrics.transitions.WithLabelValues("donation", string(from), string(to)).Inc()
	c.logger.WithFields(logrus.Fields{
		"donation_id":       donationID,
		"from":              from,
		"to":                to,
		"rejected_requests": rejected,
	}).Info("donation status changed")

	return updated, nil
}

// DeleteDonation removes the donation together with every request made
// against it.
func (c *Coordinator) DeleteDonation(ctx context.Context, donationID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var removed int64
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		if _, err := tx.Donations.Donation(ctx, donationID); err != nil {
			return err
		}

		var err error
		removed, err = tx.Requests.DeleteByDonation(ctx, donationID)
		if err != nil {
			return err
		}

		return tx.Donations.Delete(ctx, donationID)
	})
	if err != nil {
		return fmt.Errorf("delete donation %s: %w", donationID, err)
	}

	c.logger.WithFields(logrus.Fields{
		"donation_id":      donationID,
		"removed_requests": removed,
	}).Info("donation deleted")

	return nil
}
