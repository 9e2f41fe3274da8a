package validator

import (
	"github.com/go-playground/validator/v10"

	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/validation"
)

type ContactValidator struct {
	validate *validator.Validate
}

func NewContactValidator(log *logger.Logger) *ContactValidator {
	v := validation.New(log)
	log.Info("Contact validator initialized successfully")
	return &ContactValidator{validate: v}
}

func (v *ContactValidator) Validate(c *model.Contact) error {
	if err := validation.Struct(v.validate, c); err != nil {
		return err
	}
	return v.validateBusinessRules(c)
}

func (v *ContactValidator) ValidateUpdate(u *model.ContactUpdate) error {
	return validation.Struct(v.validate, u)
}

// Shared contacts hang off a community or city; private ones off their owner.
func (v *ContactValidator) validateBusinessRules(c *model.Contact) error {
	var errs validation.ValidationErrors

	switch c.Scope {
	case model.ScopeUser:
		if c.OwnerID == "" {
			errs = append(errs, validation.ValidationError{Field: "owner_id", Message: "user contacts require an authenticated user"})
		}
	case model.ScopeCommunity, model.ScopeCity:
		if c.ScopeID == "" {
			errs = append(errs, validation.ValidationError{Field: "scope_id", Message: "scope_id is required for " + c.Scope + " contacts"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
