// Package validator runs go-playground struct validation behind a single
// call sized for the error envelope.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks v against its validate tags. It returns nil for a valid
// struct, otherwise a field-to-failed-tag map ready for the response
// details payload.
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
