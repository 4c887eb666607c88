package types

import "time"

type DonationStatus string

const (
	DonationStatusAvailable   DonationStatus = "available"
	DonationStatusAccepted    DonationStatus = "accepted"
	DonationStatusDistributed DonationStatus = "distributed"
)

type Donation struct {
	ID         string         `db:"id" json:"donation_id"`
	UserID     string         `db:"user_id" json:"user_id"`
	FoodItem   string         `db:"food_item" json:"food_item"`
	Quantity   int            `db:"quantity" json:"quantity"`
	ExpiryDate Date           `db:"expiry_date" json:"expiry_date"`
	Status     DonationStatus `db:"status" json:"status"`
	Version    int            `db:"version" json:"version"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// DonationDetail is a donation together with every request made against it.
type DonationDetail struct {
	*Donation
	Requests []*Request `json:"requests"`
}
