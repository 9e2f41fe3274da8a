package model

import "time"

const (
	EventContactCreated  = "contact.created"
	EventSignupCreated   = "signup.created"
	EventDonationCreated = "donation.created"

	EventSource = "gather"
)

type ContactCreatedEvent struct {
	ContactID string    `json:"contact_id"`
	Scope     string    `json:"scope"`
	ScopeID   string    `json:"scope_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SignupCreatedEvent struct {
	ClassID    string    `json:"class_id"`
	ClassTitle string    `json:"class_title"`
	SignupID   string    `json:"signup_id"`
	Phone      string    `json:"phone,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
}

type DonationCreatedEvent struct {
	DonationID  string `json:"donation_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	DonorName   string `json:"donor_name"`
	DonorPhone  string `json:"donor_phone,omitempty"`
}
