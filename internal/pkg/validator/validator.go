package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("gender", genderTag)
}

// gender accepts the values the booking form emits, case-insensitively.
func genderTag(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "male", "female", "other":
		return true
	}
	return false
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
