package lifecycle

import (
	"fmt"

	"foodbridge/pkg/types"
)

func ValidateRole(role types.Role) error {
	switch role {
	case types.RoleDonor, types.RoleNGO:
		return nil
	default:
		return fmt.Errorf("%w %q: must be donor or ngo", types.ErrInvalidRole, role)
	}
}

func ValidateDonationStatus(status types.DonationStatus) error {
	switch status {
	case types.DonationStatusAvailable, types.DonationStatusAccepted, types.DonationStatusDistributed:
		return nil
	default:
		return fmt.Errorf("%w %q for donation", types.ErrInvalidStatus, status)
	}
}

func ValidateRequestStatus(status types.RequestStatus) error {
	switch status {
	case types.RequestStatusPending, types.RequestStatusAccepted, types.RequestStatusRejected:
		return nil
	default:
		return fmt.Errorf("%w %q for request", types.ErrInvalidStatus, status)
	}
}

// donationTransitions lists the only status moves a donation may make.
var donationTransitions = map[types.DonationStatus]types.DonationStatus{
	types.DonationStatusAvailable: types.DonationStatusAccepted,
	types.DonationStatusAccepted:  types.DonationStatusDistributed,
}

var requestTransitions = map[types.RequestStatus][]types.RequestStatus{
	types.RequestStatusPending: {types.RequestStatusAccepted, types.RequestStatusRejected},
}

func validateDonationTransition(from, to types.DonationStatus) error {
	if next, ok := donationTransitions[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("%w: donation cannot move from %s to %s", types.ErrIllegalTransition, from, to)
}

func validateRequestTransition(from, to types.RequestStatus) error {
	for _, next := range requestTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: request cannot move from %s to %s", types.ErrIllegalTransition, from, to)
}
