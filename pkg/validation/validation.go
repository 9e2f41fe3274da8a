// Package validation holds the error shape and custom tags shared by the
// domain validators.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gather/pkg/logger"
	"gather/pkg/sanitizer"
	"gather/pkg/signup"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors for an AppError details map.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

const (
	TagPhoneDigits  = "phone_digits"
	TagSignupSchema = "signup_schema"
)

// New returns a validator using json field names and the shared custom tags.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(TagPhoneDigits, validatePhoneDigits); err != nil {
		log.Fatal("Failed to register 'phone_digits' validator", "error", err)
	}
	if err := v.RegisterValidation(TagSignupSchema, validateSignupSchema); err != nil {
		log.Fatal("Failed to register 'signup_schema' validator", "error", err)
	}

	return v
}

// validatePhoneDigits accepts any punctuation as long as 7 to 15 digits remain.
func validatePhoneDigits(fl validator.FieldLevel) bool {
	n := len(sanitizer.PhoneDigits(fl.Field().String()))
	return n >= 7 && n <= 15
}

// validateSignupSchema requires unique non-empty keys, a type on every field
// and at least one data-bearing field.
func validateSignupSchema(fl validator.FieldLevel) bool {
	schema, ok := fl.Field().Interface().(signup.Schema)
	if !ok {
		return false
	}
	seen := make(map[string]bool, len(schema))
	for _, f := range schema {
		if strings.TrimSpace(f.Key) == "" || f.Type == "" || seen[f.Key] {
			return false
		}
		seen[f.Key] = true
	}
	return len(schema.DataFields()) > 0
}

// Struct validates s and translates failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid identifier", field)
		case "iso4217":
			message = fmt.Sprintf("%s must be an ISO 4217 currency code", field)
		case TagPhoneDigits:
			message = fmt.Sprintf("%s must contain between 7 and 15 digits", field)
		case TagSignupSchema:
			message = "signup_form needs unique keys, a type on every field and at least one data field"
		}

		out = append(out, ValidationError{Field: field, Message: message})
	}

	return out
}
