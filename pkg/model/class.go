package model

import (
	"time"

	"gather/pkg/signup"
)

type Class struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CommunityID string        `json:"community_id" bson:"community_id" validate:"required,mongodb"`
	Title       string        `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string        `json:"description,omitempty" bson:"description" validate:"omitempty,max=5000"`
	StartsAt    time.Time     `json:"starts_at" bson:"starts_at" validate:"required"`
	Capacity    int           `json:"capacity,omitempty" bson:"capacity" validate:"omitempty,min=1,max=10000"`
	SignupForm  signup.Schema `json:"signup_form" bson:"signup_form" validate:"required,min=1,signup_schema"`
	Signups     []Signup      `json:"-" bson:"signups"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

type Signup struct {
	ID         string       `json:"id" bson:"id"`
	Data       signup.Entry `json:"data" bson:"data"`
	Phone      string       `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	CanceledAt *time.Time   `json:"canceled_at,omitempty" bson:"canceled_at,omitempty"`
}

// ActiveSignups returns signups that have not been canceled, in signup order.
func (c *Class) ActiveSignups() []Signup {
	out := make([]Signup, 0, len(c.Signups))
	for _, s := range c.Signups {
		if s.CanceledAt == nil {
			out = append(out, s)
		}
	}
	return out
}

// ProjectionInput adapts the class for signup.Project. Canceled signups are
// left out but still count toward the positions of later ones.
func (c *Class) ProjectionInput() *signup.Class {
	in := &signup.Class{Schema: c.SignupForm}
	for i, s := range c.Signups {
		if s.CanceledAt != nil {
			continue
		}
		in.Signups = append(in.Signups, s.Data)
		in.Positions = append(in.Positions, i+1)
	}
	return in
}

// SignupReceipt is returned after a signup; Token cancels it.
type SignupReceipt struct {
	SignupID string `json:"signup_id"`
	Token    string `json:"cancel_token"`
}
