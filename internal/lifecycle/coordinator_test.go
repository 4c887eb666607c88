package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"foodbridge/internal/db"
	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()

	s := store.New(db.NewTestDB(t), db.DriverSQLite)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := New(s, logger, prometheus.NewRegistry(), 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func mustUser(t *testing.T, c *Coordinator, name, email string, role types.Role) *types.User {
	t.Helper()
	user, err := c.CreateUser(context.Background(), name, email, "secret", role)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return user
}

func mustDonation(t *testing.T, c *Coordinator, ownerID string) *types.Donation {
	t.Helper()
	donation, err := c.CreateDonation(context.Background(), ownerID, "Rice", 10, "2025-12-01")
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	return donation
}

func mustRequest(t *testing.T, c *Coordinator, ngoID, donationID string) *types.Request {
	t.Helper()
	request, err := c.CreateRequest(context.Background(), ngoID, donationID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return request
}

func TestCreateUserRoles(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	for _, role := range []types.Role{types.RoleDonor, types.RoleNGO} {
		user, err := c.CreateUser(ctx, "Someone", "someone@example.org", "pw", role)
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", role, err)
		}
		if user.Role != role {
			t.Errorf("expected role %s, got %s", role, user.Role)
		}
		if user.ID == "" {
			t.Error("expected store-assigned id")
		}
	}

	for _, role := range []types.Role{"admin", "", "NGO"} {
		_, err := c.CreateUser(ctx, "Someone", "someone@example.org", "pw", role)
		if !errors.Is(err, types.ErrInvalidInput) {
			t.Errorf("CreateUser(%q): expected invalid input, got %v", role, err)
		}
	}

	users, err := c.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	c := newTestCoordinator(t)

	_, err := c.CreateUser(context.Background(), "Alice", "not-an-email", "pw", types.RoleDonor)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)

	name := "Alice Smith"
	updated, err := c.UpdateUser(ctx, alice.ID, types.UserUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != name || updated.Email != "alice@x.org" {
		t.Errorf("unexpected user after update: %+v", updated)
	}

	bad := types.Role("admin")
	if _, err := c.UpdateUser(ctx, alice.ID, types.UserUpdate{Role: &bad}); !errors.Is(err, types.ErrInvalidRole) {
		t.Errorf("expected invalid role, got %v", err)
	}

	if _, err := c.UpdateUser(ctx, "missing", types.UserUpdate{Name: &name}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	fetched, err := c.User(ctx, alice.ID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if fetched.Name != name || fetched.Role != types.RoleDonor {
		t.Errorf("update not persisted: %+v", fetched)
	}
}

func TestDeleteUserWithDonationsRefused(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	bob := mustUser(t, c, "Bob", "bob@x.org", types.RoleDonor)
	mustDonation(t, c, alice.ID)

	if err := c.DeleteUser(ctx, alice.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict deleting donor with donations, got %v", err)
	}
	if err := c.DeleteUser(ctx, bob.ID); err != nil {
		t.Errorf("DeleteUser: %v", err)
	}
	if err := c.DeleteUser(ctx, bob.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)

	tests := []struct {
		name     string
		owner    string
		item     string
		quantity int
		expiry   string
		want     error
	}{
		{"zero quantity", alice.ID, "Rice", 0, "2025-12-01", types.ErrInvalidInput},
		{"negative quantity", alice.ID, "Rice", -3, "2025-12-01", types.ErrInvalidInput},
		{"bad date", alice.ID, "Rice", 1, "01/12/2025", types.ErrInvalidInput},
		{"empty item", alice.ID, " ", 1, "2025-12-01", types.ErrInvalidInput},
		{"ngo owner", helpers.ID, "Rice", 1, "2025-12-01", types.ErrInvalidInput},
		{"missing owner", "nobody", "Rice", 1, "2025-12-01", types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateDonation(ctx, tt.owner, tt.item, tt.quantity, tt.expiry)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateDonationListedAvailable(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	created, err := c.CreateDonation(ctx, alice.ID, "Rice", 10, "2025-12-01")
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if created.Status != types.DonationStatusAvailable {
		t.Errorf("expected available, got %s", created.Status)
	}

	available, err := c.AvailableDonations(ctx)
	if err != nil {
		t.Fatalf("AvailableDonations: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("expected 1 available donation, got %d", len(available))
	}

	got := available[0]
	if got.ID != created.ID || got.UserID != alice.ID || got.FoodItem != "Rice" ||
		got.Quantity != 10 || got.ExpiryDate.String() != "2025-12-01" || got.Status != types.DonationStatusAvailable {
		t.Errorf("listed donation differs from created one: %+v vs %+v", got, created)
	}
}

func TestDonationTransitions(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	donation := mustDonation(t, c, alice.ID)

	if _, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusDistributed); !errors.Is(err, types.ErrIllegalTransition) {
		t.Errorf("expected illegal skip to distributed, got %v", err)
	}

	accepted, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusAccepted)
	if err != nil {
		t.Fatalf("accept donation: %v", err)
	}
	if accepted.Status != types.DonationStatusAccepted || accepted.Version != donation.Version+1 {
		t.Errorf("unexpected donation after accept: %+v", accepted)
	}

	if _, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusAccepted); !errors.Is(err, types.ErrIllegalTransition) {
		t.Errorf("expected illegal same-state write, got %v", err)
	}

	if _, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusDistributed); err != nil {
		t.Fatalf("distribute donation: %v", err)
	}

	if _, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusAvailable); !errors.Is(err, types.ErrIllegalTransition) {
		t.Errorf("expected illegal distributed -> available, got %v", err)
	}

	if _, err := c.TransitionDonation(ctx, donation.ID, "eaten"); !errors.Is(err, types.ErrInvalidStatus) {
		t.Errorf("expected invalid status, got %v", err)
	}

	if _, err := c.TransitionDonation(ctx, "missing", types.DonationStatusAccepted); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	transitions := testutil.ToFloat64(c.metrics.transitions.WithLabelValues("donation", "accepted", "distributed"))
	if transitions != 1 {
		t.Errorf("expected 1 accepted->distributed transition metric, got %v", transitions)
	}
}

func TestDirectDonationAcceptRejectsPendingRequests(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)
	request := mustRequest(t, c, helpers.ID, donation.ID)

	if _, err := c.TransitionDonation(ctx, donation.ID, types.DonationStatusAccepted); err != nil {
		t.Fatalf("TransitionDonation: %v", err)
	}

	got, err := c.Request(ctx, request.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got.Status != types.RequestStatusRejected {
		t.Errorf("expected pending request rejected, got %s", got.Status)
	}
}

func TestCreateRequestPreconditions(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)

	if _, err := c.CreateRequest(ctx, alice.ID, donation.ID); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected invalid input for donor requester, got %v", err)
	}
	if _, err := c.CreateRequest(ctx, "nobody", donation.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found for missing ngo, got %v", err)
	}
	if _, err := c.CreateRequest(ctx, helpers.ID, "missing"); !errors.Is(err, types.ErrDonationNotFound) {
		t.Errorf("expected donation not found, got %v", err)
	}

	request := mustRequest(t, c, helpers.ID, donation.ID)
	if request.Status != types.RequestStatusPending {
		t.Errorf("expected pending, got %s", request.Status)
	}

	if _, err := c.CreateRequest(ctx, helpers.ID, donation.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict for duplicate request, got %v", err)
	}

	if _, err := c.CreateRequestForEmail(ctx, "nobody@y.org", donation.ID); !errors.Is(err, types.ErrNGONotFound) {
		t.Errorf("expected ngo not found, got %v", err)
	}
	if _, err := c.CreateRequestForEmail(ctx, "alice@x.org", donation.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected donor email not to resolve as ngo, got %v", err)
	}

	requests, err := c.RequestsByOrganization(ctx, helpers.ID)
	if err != nil {
		t.Fatalf("RequestsByOrganization: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != request.ID {
		t.Errorf("unexpected requests for ngo: %+v", requests)
	}
}

func TestAcceptRequestScenario(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	donation, err := c.CreateDonation(ctx, alice.ID, "Rice", 10, "2025-12-01")
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if donation.Status != types.DonationStatusAvailable {
		t.Fatalf("expected available, got %s", donation.Status)
	}

	mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	other := mustUser(t, c, "Others", "other@y.org", types.RoleNGO)

	request, err := c.CreateRequestForEmail(ctx, "help@y.org", donation.ID)
	if err != nil {
		t.Fatalf("CreateRequestForEmail: %v", err)
	}
	if request.Status != types.RequestStatusPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}

	accepted, err := c.TransitionRequest(ctx, request.ID, types.RequestStatusAccepted)
	if err != nil {
		t.Fatalf("TransitionRequest: %v", err)
	}
	if accepted.Status != types.RequestStatusAccepted {
		t.Errorf("expected accepted request, got %s", accepted.Status)
	}

	detail, err := c.Donation(ctx, donation.ID)
	if err != nil {
		t.Fatalf("Donation: %v", err)
	}
	if detail.Status != types.DonationStatusAccepted {
		t.Errorf("expected donation accepted, got %s", detail.Status)
	}

	if _, err := c.CreateRequest(ctx, other.ID, donation.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict for request against accepted donation, got %v", err)
	}
}

func TestAcceptRequestRejectsSiblings(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	a := mustUser(t, c, "A", "a@y.org", types.RoleNGO)
	b := mustUser(t, c, "B", "b@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)

	ra := mustRequest(t, c, a.ID, donation.ID)
	rb := mustRequest(t, c, b.ID, donation.ID)

	if _, err := c.AcceptRequest(ctx, ra.ID); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	got, err := c.Request(ctx, rb.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got.Status != types.RequestStatusRejected {
		t.Errorf("expected sibling rejected, got %s", got.Status)
	}

	if _, err := c.AcceptRequest(ctx, rb.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict accepting sibling, got %v", err)
	}

	if _, err := c.TransitionRequest(ctx, ra.ID, types.RequestStatusPending); !errors.Is(err, types.ErrIllegalTransition) {
		t.Errorf("expected illegal accepted -> pending, got %v", err)
	}

	conflicts := testutil.ToFloat64(c.metrics.conflicts.WithLabelValues("accept_request"))
	if conflicts != 1 {
		t.Errorf("expected 1 accept conflict metric, got %v", conflicts)
	}
}

func TestConcurrentAcceptExactlyOneWins(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	a := mustUser(t, c, "A", "a@y.org", types.RoleNGO)
	b := mustUser(t, c, "B", "b@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)

	ids := []string{
		mustRequest(t, c, a.ID, donation.ID).ID,
		mustRequest(t, c, b.ID, donation.ID).ID,
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	start := make(chan struct{})
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			<-start
			_, errs[i] = c.AcceptRequest(ctx, id)
		}(i, id)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, types.ErrConflict):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one accept to win, got %d (errors %v)", wins, errs)
	}

	detail, err := c.Donation(ctx, donation.ID)
	if err != nil {
		t.Fatalf("Donation: %v", err)
	}
	if detail.Status != types.DonationStatusAccepted {
		t.Errorf("expected donation accepted, got %s", detail.Status)
	}

	acceptedCount := 0
	for _, r := range detail.Requests {
		if r.Status == types.RequestStatusAccepted {
			acceptedCount++
		}
	}
	if acceptedCount != 1 {
		t.Errorf("expected exactly one accepted request, got %d", acceptedCount)
	}
}

func TestAcceptRejectedRequestRollsBack(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)
	request := mustRequest(t, c, helpers.ID, donation.ID)

	if _, err := c.RejectRequest(ctx, request.ID); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}

	if _, err := c.AcceptRequest(ctx, request.ID); !errors.Is(err, types.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}

	detail, err := c.Donation(ctx, donation.ID)
	if err != nil {
		t.Fatalf("Donation: %v", err)
	}
	if detail.Status != types.DonationStatusAvailable {
		t.Errorf("donation claim was not rolled back: status %s", detail.Status)
	}

	if _, err := c.RejectRequest(ctx, request.ID); !errors.Is(err, types.ErrIllegalTransition) {
		t.Errorf("expected illegal rejected -> rejected, got %v", err)
	}
}

func TestDeleteDonationCascades(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)

	lonely := mustDonation(t, c, alice.ID)
	if err := c.DeleteDonation(ctx, lonely.ID); err != nil {
		t.Fatalf("DeleteDonation without requests: %v", err)
	}

	donation := mustDonation(t, c, alice.ID)
	request := mustRequest(t, c, helpers.ID, donation.ID)
	if _, err := c.AcceptRequest(ctx, request.ID); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if err := c.DeleteDonation(ctx, donation.ID); err != nil {
		t.Fatalf("DeleteDonation with requests: %v", err)
	}

	if _, err := c.Donation(ctx, donation.ID); !errors.Is(err, types.ErrDonationNotFound) {
		t.Errorf("expected donation gone, got %v", err)
	}
	if _, err := c.Request(ctx, request.ID); !errors.Is(err, types.ErrRequestNotFound) {
		t.Errorf("expected request cascaded, got %v", err)
	}
	if err := c.DeleteDonation(ctx, donation.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}

	// With its request gone the organization can be deleted too.
	if err := c.DeleteUser(ctx, helpers.ID); err != nil {
		t.Errorf("DeleteUser: %v", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)
	request := mustRequest(t, c, helpers.ID, donation.ID)

	if err := c.DeleteRequest(ctx, request.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if err := c.DeleteRequest(ctx, request.ID); !errors.Is(err, types.ErrRequestNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	// A cancelled request frees the organization to ask again.
	mustRequest(t, c, helpers.ID, donation.ID)
}

func TestExpiredContextSurfacesStoreTimeout(t *testing.T) {
	c := newTestCoordinator(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := c.AvailableDonations(ctx)
	if !errors.Is(err, types.ErrStoreTimeout) {
		t.Fatalf("expected store timeout, got %v", err)
	}
	if !types.IsRetryable(err) {
		t.Error("expected store timeout to be retryable")
	}
	if types.KindOf(err) != types.ErrStoreTimeout {
		t.Errorf("expected kind store timeout, got %v", types.KindOf(err))
	}
}

func TestUpdateUserRoleChangeRefusedWhileReferenced(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	fresh := mustUser(t, c, "Fresh", "fresh@x.org", types.RoleDonor)
	donation := mustDonation(t, c, alice.ID)
	mustRequest(t, c, helpers.ID, donation.ID)

	ngo := types.RoleNGO
	if _, err := c.UpdateUser(ctx, alice.ID, types.UserUpdate{Role: &ngo}); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict changing role of donor with donations, got %v", err)
	}
	if _, err := c.CreateRequest(ctx, alice.ID, donation.ID); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected donor to stay unable to request, got %v", err)
	}

	donor := types.RoleDonor
	if _, err := c.UpdateUser(ctx, helpers.ID, types.UserUpdate{Role: &donor}); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected conflict changing role of ngo with requests, got %v", err)
	}

	fetched, err := c.User(ctx, alice.ID)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if fetched.Role != types.RoleDonor {
		t.Errorf("expected role to stay donor, got %s", fetched.Role)
	}

	// Same role and other fields stay editable.
	name := "Alice Smith"
	if _, err := c.UpdateUser(ctx, alice.ID, types.UserUpdate{Name: &name, Role: &donor}); err != nil {
		t.Errorf("expected rename with unchanged role to succeed, got %v", err)
	}

	updated, err := c.UpdateUser(ctx, fresh.ID, types.UserUpdate{Role: &ngo})
	if err != nil {
		t.Fatalf("expected role change of unreferenced user to succeed, got %v", err)
	}
	if updated.Role != types.RoleNGO {
		t.Errorf("expected ngo role, got %s", updated.Role)
	}
}

func TestCreateRequestLeavesDonationVersion(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	others := mustUser(t, c, "Others", "other@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)

	mustRequest(t, c, helpers.ID, donation.ID)
	mustRequest(t, c, others.ID, donation.ID)

	detail, err := c.Donation(ctx, donation.ID)
	if err != nil {
		t.Fatalf("Donation: %v", err)
	}
	if detail.Version != donation.Version || detail.Status != types.DonationStatusAvailable {
		t.Errorf("expected version %d and available, got %d and %s", donation.Version, detail.Version, detail.Status)
	}
	if len(detail.Requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(detail.Requests))
	}
}

func TestConcurrentDuplicateRequestsOneWins(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	alice := mustUser(t, c, "Alice", "alice@x.org", types.RoleDonor)
	helpers := mustUser(t, c, "Helpers", "help@y.org", types.RoleNGO)
	donation := mustDonation(t, c, alice.ID)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CreateRequest(ctx, helpers.ID, donation.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, types.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || conflicts != attempts-1 {
		t.Errorf("expected 1 created and %d conflicts, got %d and %d", attempts-1, created, conflicts)
	}

	requests, err := c.RequestsByOrganization(ctx, helpers.ID)
	if err != nil {
		t.Fatalf("RequestsByOrganization: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("expected a single stored request, got %d", len(requests))
	}
}
