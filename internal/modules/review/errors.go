package review

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrNotFound        = errors.New("not_found")
	ErrForbidden       = errors.New("forbidden")
	ErrNotConfirmed    = errors.New("booking_not_confirmed")
	ErrAlreadyReviewed = errors.New("already_reviewed")
)
