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

const requestTableName = "requests"

var requestColumns = utils.StructTagValues(types.Request{})

type RequestRepository struct {
	run     runner
	builder sq.StatementBuilderType
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.Request, error) {
	query, args, err := r.builder.
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var request types.Request
	found, err := get(ctx, r.run, &request, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, fmt.Sprintf("failed to fetch request %s", requestID))
	}
	if !found {
		return nil, types.ErrRequestNotFound
	}

	return &request, nil
}

func (r *RequestRepository) RequestsByNGO(ctx context.Context, ngoID string) ([]*types.Request, error) {
	return r.selectWhere(ctx, sq.Eq{"ngo_id": ngoID}, "failed to fetch requests by ngo")
}

func (r *RequestRepository) RequestsByDonation(ctx context.Context, donationID string) ([]*types.Request, error) {
	return r.selectWhere(ctx, sq.Eq{"donation_id": donationID}, "failed to fetch requests by donation")
}

func (r *RequestRepository) selectWhere(ctx context.Context, pred sq.Eq, msg string) ([]*types.Request, error) {
	query, args, err := r.builder.
		Select(requestColumns...).
		From(requestTableName).
		Where(pred).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	requests := make([]*types.Request, 0)
	err = sqlscan.Select(ctx, r.run, &requests, query, args...)
	if err != nil {
		return nil, wrapStoreError(err, msg)
	}

	return requests, nil
}

func (r *RequestRepository) Create(ctx context.Context, request *types.Request) error {
	now := time.Now().UTC()
	request.ID = utils.NanoID()
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := r.builder.
		Insert(requestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.run.ExecContext(ctx, query, args...)
	return wrapStoreError(err, "failed to create request")
}

// CompareAndSetStatus moves the request from one status to another only if it
// is still in the expected status. It reports whether the row was updated.
func (r *RequestRepository) CompareAndSetStatus(ctx context.Context, requestID string, from, to types.RequestStatus) (bool, error) {
	query, args, err := r.builder.
		Update(requestTableName).
		Set("status", to).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": requestID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate request status query for request %s: %w", requestID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapStoreError(err, fmt.Sprintf("failed to update request %s status", requestID))
	}

	n, err := affected(res)
	if err != nil {
		return false, wrapStoreError(err, "failed to update request status")
	}

	return n == 1, nil
}

// RejectPending rejects every pending request against the donation except the
// one named by keepID, returning how many were rejected.
func (r *RequestRepository) RejectPending(ctx context.Context, donationID, keepID string) (int64, error) {
	query, args, err := r.builder.
		Update(requestTableName).
		Set("status", types.RequestStatusRejected).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"donation_id": donationID, "status": types.RequestStatusPending}).
		Where(sq.NotEq{"id": keepID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate reject pending query for donation %s: %w", donationID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapStoreError(err, fmt.Sprintf("failed to reject pending requests for donation %s", donationID))
	}

	n, err := affected(res)
	return n, wrapStoreError(err, "failed to reject pending requests")
}

func (r *RequestRepository) Delete(ctx context.Context, requestID string) error {
	query, args, err := r.builder.
		Delete(requestTableName).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete request query for request %s: %w", requestID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapStoreError(err, fmt.Sprintf("failed to delete request %s", requestID))
	}

	n, err := affected(res)
	if err != nil {
		return wrapStoreError(err, "failed to delete request")
	}
	if n == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}

// DeleteByDonation removes every request against the donation.
func (r *RequestRepository) DeleteByDonation(ctx context.Context, donationID string) (int64, error) {
	query, args, err := r.builder.
		Delete(requestTableName).
		Where(sq.Eq{"donation_id": donationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate delete requests query for donation %s: %w", donationID, err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapStoreError(err, fmt.Sprintf("failed to delete requests for donation %s", donationID))
	}

	n, err := affected(res)
	return n, wrapStoreError(err, "failed to delete requests")
}
