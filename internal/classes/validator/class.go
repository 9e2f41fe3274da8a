package validator

import (
	"github.com/go-playground/validator/v10"

	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/validation"
)

type ClassValidator struct {
	validate *validator.Validate
}

func NewClassValidator(log *logger.Logger) *ClassValidator {
	v := validation.New(log)
	log.Info("Class validator initialized successfully")
	return &ClassValidator{validate: v}
}

func (v *ClassValidator) Validate(c *model.Class) error {
	return validation.Struct(v.validate, c)
}
