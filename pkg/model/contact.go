package model

import (
	"time"

	"gather/pkg/contacts"
)

const (
	ScopeUser      = "user"
	ScopeCommunity = "community"
	ScopeCity      = "city"
)

type Contact struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName   string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName    string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Phone       string    `json:"phone" bson:"phone" validate:"omitempty,max=32,phone_digits"`
	PhoneDigits string    `json:"-" bson:"phone_digits"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Scope       string    `json:"scope" bson:"scope" validate:"required,oneof=user community city"`
	ScopeID     string    `json:"scope_id,omitempty" bson:"scope_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`

	// Extra scopes to check for duplicates. Not persisted.
	CommunityIDs []string `json:"community_ids,omitempty" bson:"-" validate:"omitempty,max=50,dive,mongodb"`
	CityIDs      []string `json:"city_ids,omitempty" bson:"-" validate:"omitempty,max=50,dive,mongodb"`
}

type ContactUpdate struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32,phone_digits"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`

	CommunityIDs []string `json:"community_ids,omitempty" validate:"omitempty,max=50,dive,mongodb"`
	CityIDs      []string `json:"city_ids,omitempty" validate:"omitempty,max=50,dive,mongodb"`
}

// ToDedup returns the identity-bearing fields used for duplicate checks.
func (c *Contact) ToDedup() contacts.Contact {
	return contacts.Contact{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// ToDedupSlice converts stored contacts for a duplicate scan.
func ToDedupSlice(list []*Contact) []contacts.Contact {
	out := make([]contacts.Contact, 0, len(list))
	for _, c := range list {
		out = append(out, c.ToDedup())
	}
	return out
}
