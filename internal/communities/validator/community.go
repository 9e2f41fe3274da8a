package validator

import (
	"github.com/go-playground/validator/v10"

	"gather/pkg/document"
	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/places"
	"gather/pkg/validation"
)

type CommunityValidator struct {
	validate *validator.Validate
}

func NewCommunityValidator(log *logger.Logger) *CommunityValidator {
	v := validation.New(log)
	log.Info("Community validator initialized successfully")
	return &CommunityValidator{validate: v}
}

func (v *CommunityValidator) Validate(doc document.Object) error {
	errs := places.ValidateCommon(v.validate, doc)

	// city_id is optional but must reference a city by id when set.
	if cityID := doc[model.FieldCityID]; !cityID.IsNull() {
		s, ok := cityID.AsString()
		if !ok || v.validate.Var(s, "omitempty,mongodb") != nil {
			errs = append(errs, validation.ValidationError{Field: model.FieldCityID, Message: "city_id must be a valid identifier"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
