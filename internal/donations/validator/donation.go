package validator

import (
	"github.com/go-playground/validator/v10"

	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/validation"
)

type DonationValidator struct {
	validate *validator.Validate
}

func NewDonationValidator(log *logger.Logger) *DonationValidator {
	v := validation.New(log)
	log.Info("Donation validator initialized successfully")
	return &DonationValidator{validate: v}
}

func (v *DonationValidator) Validate(d *model.Donation) error {
	return validation.Struct(v.validate, d)
}
