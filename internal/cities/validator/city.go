package validator

import (
	"github.com/go-playground/validator/v10"

	"gather/pkg/document"
	"gather/pkg/logger"
	"gather/pkg/places"
	"gather/pkg/validation"
)

type CityValidator struct {
	validate *validator.Validate
}

func NewCityValidator(log *logger.Logger) *CityValidator {
	v := validation.New(log)
	log.Info("City validator initialized successfully")
	return &CityValidator{validate: v}
}

func (v *CityValidator) Validate(doc document.Object) error {
	if errs := places.ValidateCommon(v.validate, doc); len(errs) > 0 {
		return errs
	}
	return nil
}
