package lifecycle

import (
	"context"
	"fmt"

	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/sirupsen/logrus"
)

// CreateRequest records the organization ngoID's claim on a donation. The
// organization must exist with role ngo, the donation must still be
// available, and the organization may not already hold a live request for it.
func (c *Coordinator) CreateRequest(ctx context.Context, ngoID, donationID string) (*types.Request, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ngo, err := c.store.Users.User(ctx, ngoID)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if ngo.Role != types.RoleNGO {
		return nil, fmt.Errorf("%w: user %s is not an ngo", types.ErrInvalidInput, ngoID)
	}

	request := &types.Request{
		NGOID:      ngoID,
		DonationID: donationID,
		Status:     types.RequestStatusPending,
	}

	err = c.store.InTx(ctx, func(tx store.Repositories) error {
		// The row lock is taken before anything is read so that a concurrent
		// acceptance or a second request from the same ngo waits for this
		// transaction and then sees its insert.
		ok, err := tx.Donations.LockAvailable(ctx, donationID)
		if err != nil {
			return err
		}
		if !ok {
			donation, err := tx.Donations.Donation(ctx, donationID)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w (status %s)", types.ErrDonationUnavailable, donation.Status)
		}

		existing, err := tx.Requests.RequestsByDonation(ctx, donationID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.NGOID == ngoID && r.Status != types.RequestStatusRejected {
				return fmt.Errorf("%w: ngo %s already holds request %s for donation %s", types.ErrConflict, ngoID, r.ID, donationID)
			}
		}

		return tx.Requests.Create(ctx, request)
	})
	if err != nil {
		return nil, c.conflict("create_request", fmt.Errorf("create request: %w", err), logrus.Fields{
			"ngo_id":      ngoID,
			"donation_id": donationID,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"ngo_id":      ngoID,
		"donation_id": donationID,
	}).Info("request created")

	return request, nil
}

// CreateRequestForEmail resolves the organization by email and creates its
// request against the donation.
func (c *Coordinator) CreateRequestForEmail(ctx context.Context, ngoEmail, donationID string) (*types.Request, error) {
	ngo, err := c.OrganizationByEmail(ctx, ngoEmail)
	if err != nil {
		return nil, err
	}
	return c.CreateRequest(ctx, ngo.ID, donationID)
}

func (c *Coordinator) RequestsByOrganization(ctx context.Context, ngoID string) ([]*types.Request, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	requests, err := c.store.Requests.RequestsByNGO(ctx, ngoID)
	if err != nil {
		return nil, fmt.Errorf("list requests for ngo %s: %w", ngoID, err)
	}
	return requests, nil
}

func (c *Coordinator) Request(ctx context.Context, requestID string) (*types.Request, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	request, err := c.store.Requests.Request(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request %s: %w", requestID, err)
	}
	return request, nil
}

// TransitionRequest moves a pending request to accepted or rejected.
// Acceptance goes through AcceptRequest so the donation is claimed in the
// same step.
func (c *Coordinator) TransitionRequest(ctx context.Context, requestID string, to types.RequestStatus) (*types.Request, error) {
	if err := ValidateRequestStatus(to); err != nil {
		return nil, err
	}

	switch to {
	case types.RequestStatusAccepted:
		return c.AcceptRequest(ctx, requestID)
	case types.RequestStatusRejected:
		return c.RejectRequest(ctx, requestID)
	default:
		return nil, fmt.Errorf("%w: request cannot move back to %s", types.ErrIllegalTransition, to)
	}
}

// AcceptRequest atomically claims the request's donation for its
// organization: the donation moves available -> accepted, the request moves
// pending -> accepted and every other pending request against the donation is
// rejected. A donation that is no longer available fails with ErrConflict.
func (c *Coordinator) AcceptRequest(ctx context.Context, requestID string) (*types.Request, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		accepted *types.Request
		rejected int64
	)
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		request, err := tx.Requests.Request(ctx, requestID)
		if err != nil {
			return err
		}

		// The donation is claimed first so that a lost race reports a conflict
		// regardless of what the winner did to this request.
		ok, err := tx.Donations.CompareAndSetStatus(ctx, request.DonationID, types.DonationStatusAvailable, types.DonationStatusAccepted)
		if err != nil {
			return err
		}
		if !ok {
			donation, err := tx.Donations.Donation(ctx, request.DonationID)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w (status %s)", types.ErrDonationUnavailable, donation.Status)
		}

		if err := validateRequestTransition(request.Status, types.RequestStatusAccepted); err != nil {
			return err
		}

		ok, err = tx.Requests.CompareAndSetStatus(ctx, requestID, types.RequestStatusPending, types.RequestStatusAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: request %s changed status concurrently", types.ErrConflict, requestID)
		}

		rejected, err = tx.Requests.RejectPending(ctx, request.DonationID, requestID)
		if err != nil {
			return err
		}

		accepted, err = tx.Requests.Request(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, c.conflict("accept_request", fmt.Errorf("accept request %s: %w", requestID, err), logrus.Fields{
			"request_id": requestID,
		})
	}

	c.metrics.transitions.WithLabelValues("donation", string(types.DonationStatusAvailable), string(types.DonationStatusAccepted)).Inc()
	c.metrics.transitions.WithLabelValues("request", string(types.RequestStatusPending), string(types.RequestStatusAccepted)).Inc()
	if rejected > 0 {
		c.metrics.transitions.WithLabelValues("request", string(types.RequestStatusPending), string(types.RequestStatusRejected)).Add(float64(rejected))
	}

	c.logger.WithFields(logrus.Fields{
		"request_id":        requestID,
		"donation_id":       accepted.DonationID,
		"ngo_id":            accepted.NGOID,
		"rejected_requests": rejected,
	}).Info("request accepted")

	return accepted, nil
}

func (c *Coordinator) RejectRequest(ctx context.Context, requestID string) (*types.Request, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var rejected *types.Request
	err := c.store.InTx(ctx, func(tx store.Repositories) error {
		request, err := tx.Requests.Request(ctx, requestID)
		if err != nil {
			return err
		}

		if err := validateRequestTransition(request.Status, types.RequestStatusRejected); err != nil {
			return err
		}

		ok, err := tx.Requests.CompareAndSetStatus(ctx, requestID, request.Status, types.RequestStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: request %s changed status concurrently", types.ErrConflict, requestID)
		}

		rejected, err = tx.Requests.Request(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, c.conflict("reject_request", fmt.Errorf("reject request %s: %w", requestID, err), logrus.Fields{
			"request_id": requestID,
		})
	}

	c.metrics.transitions.WithLabelValues("request", string(types.RequestStatusPending), string(types.RequestStatusRejected)).Inc()
	c.logger.WithField("request_id", requestID).Info("request rejected")

	return rejected, nil
}

// DeleteRequest cancels a request in any status.
func (c *Coordinator) DeleteRequest(ctx context.Context, requestID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Requests.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("delete request %s: %w", requestID, err)
	}

	c.logger.WithField("request_id", requestID).Info("request deleted")

	return nil
}
