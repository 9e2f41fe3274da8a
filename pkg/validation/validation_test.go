package validation

import (
	"errors"
	"testing"

	"gather/pkg/logger"
	"gather/pkg/signup"
)

type sample struct {
	Phone  string        `json:"phone" validate:"omitempty,phone_digits"`
	Email  string        `json:"email" validate:"required,email"`
	Schema signup.Schema `json:"signup_form" validate:"omitempty,signup_schema"`
}

func TestStruct_TranslatesWithJSONNames(t *testing.T) {
	v := New(logger.Nop())

	err := Struct(v, &sample{Phone: "12-34", Email: ""})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}

	got := map[string]string{}
	for _, e := range verrs {
		got[e.Field] = e.Message
	}
	if got["phone"] != "phone must contain between 7 and 15 digits" {
		t.Errorf("phone message = %q", got["phone"])
	}
	if got["email"] != "email is required" {
		t.Errorf("email message = %q", got["email"])
	}
}

func TestSignupSchemaTag(t *testing.T) {
	v := New(logger.Nop())

	tests := []struct {
		name   string
		schema signup.Schema
		valid  bool
	}{
		{"one text field", signup.Schema{{Key: "name", Type: "text"}}, true},
		{"only presentational", signup.Schema{{Key: "d", Type: signup.TypeDivider}}, false},
		{"duplicate keys", signup.Schema{{Key: "a", Type: "text"}, {Key: "a", Type: "text"}}, false},
		{"missing type", signup.Schema{{Key: "a"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(v, &sample{Email: "a@b.co", Schema: tt.schema})
			if (err == nil) != tt.valid {
				t.Errorf("valid = %v, err = %v", tt.valid, err)
			}
		})
	}
}
