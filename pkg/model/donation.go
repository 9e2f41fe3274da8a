package model

import "time"

const (
	DonationStatusPending   = "pending"
	DonationStatusSucceeded = "succeeded"
	DonationStatusFailed    = "failed"
)

type Donation struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AmountCents     int64     `json:"amount_cents" bson:"amount_cents" validate:"required,min=100,max=10000000"`
	Currency        string    `json:"currency" bson:"currency" validate:"required,iso4217"`
	DonorName       string    `json:"donor_name" bson:"donor_name" validate:"required,min=2,max=100"`
	DonorEmail      string    `json:"donor_email" bson:"donor_email" validate:"required,email,max=254"`
	DonorPhone      string    `json:"donor_phone,omitempty" bson:"donor_phone,omitempty" validate:"omitempty,max=32,phone_digits"`
	CommunityID     string    `json:"community_id,omitempty" bson:"community_id,omitempty" validate:"omitempty,mongodb"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty" bson:"payment_intent_id,omitempty"`
	Status          string    `json:"status" bson:"status"`
	ClientSecret    string    `json:"client_secret,omitempty" bson:"-"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}
