package catalog

import "errors"

var (
	ErrValidation    = errors.New("invalid_request")
	ErrFieldNotFound = errors.New("field_not_found")
)
