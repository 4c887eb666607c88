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

const donationTableName = "donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	run     runner
	builder sq.StatementBuilderType
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	query, args, err := r.builder.
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation types.Donation
	found, err := get(ctx, r.run, &donation, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, fmt.Sprintf("failed to fetch donation %s", donationID))
	}
	if !found {
		return nil, types.ErrDonationNotFound
	}

	return &donation, nil
}

// DonationsByStatus returns donations in the given status. Ordering is by
// creation time but callers must not rely on it.
func (r *DonationRepository) DonationsByStatus(ctx context.Context, status types.DonationStatus) ([]*types.Donation, error) {
	return r.selectWhere(ctx, sq.Eq{"status": status}, "failed to fetch donations by status")
}

func (r *DonationRepository) DonationsByUser(ctx context.Context, userID string) ([]*types.Donation, error) {
	return r.selectWhere(ctx, sq.Eq{"user_id": userID}, "failed to fetch donations by user")
}

func (r *DonationRepository) selectWhere(ctx context.Context, pred sq.Eq, msg string) ([]*types.Donation, error) {
	query, args, err := r.builder.
		Select(donationColumns...).
		From(donationTableName).
		Where(pred).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	donations := make([]*types.Donation, 0)
	err = sqlscan.Select(ctx, r.run, &donations, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, msg)
	}

	return donations, nil
}

func (r *DonationRepository) Create(ctx context.Context, donation *types.Donation) error {
	now := time.Now().UTC()
	donation.ID = utils.NanoID()
	donation.Version = 1
	donation.CreatedAt = now
	donation.UpdatedAt = now

	query, args, err := r.builder.
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = r.run.ExecContext(ctx, query, args...)
	return wrapStoreError(err, "failed to create donation")
}

// CompareAndSetStatus moves the donation from one status to another only if
// it is still in the expected status, bumping its version. It reports whether
// the row was updated.
func (r *DonationRepository) CompareAndSetStatus(ctx context.Context, donationID string, from, to types.DonationStatus) (bool, error) {
	query, args, err := r.builder.
		Update(donationTableName).
		Set("status", to).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": donationID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate donation status query for donation %s: %w", donationID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapStoreError(err, fmt.Sprintf("failed to update donation %s status", donationID))
	}

	n, err := affected(res)
	if err != nil {
		return false, wrapStoreError(err, "failed to update donation status")
	}

	return n == 1, nil
}

// LockAvailable takes the donation's row lock for the rest of the
// transaction, provided the donation is still available. Status, version and
// updated_at are left as they are. It reports whether the row matched.
func (r *DonationRepository) LockAvailable(ctx context.Context, donationID string) (bool, error) {
	query, args, err := r.builder.
		Update(donationTableName).
		Set("status", sq.Expr("status")).
		Where(sq.Eq{"id": donationID, "status": types.DonationStatusAvailable}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate donation lock query for donation %s: %w", donationID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapStoreError(err, fmt.Sprintf("failed to lock donation %s", donationID))
	}

	n, err := affected(res)
	if err != nil {
		return false, wrapStoreError(err, "failed to lock donation")
	}

	return n == 1, nil
}

func (r *DonationRepository) Delete(ctx context.Context, donationID string) error {
	query, args, err := r.builder.
		Delete(donationTableName).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query for donation %s: %w", donationID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStoreError(err, fmt.Sprintf("failed to delete donation %s", donationID))
	}

	n, err := affected(res)
	if err != nil {
		return wrapStoreError(err, "failed to delete donation")
	}
	if n == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}
