package types

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

type Request struct {
	ID         string        `db:"id" json:"request_id"`
	NGOID      string        `db:"ngo_id" json:"ngo_id"`
	DonationID string        `db:"donation_id" json:"donation_id"`
	Status     RequestStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}
