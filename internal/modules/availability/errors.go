package availability

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrFieldNotFound = errors.New("field not found")
)
