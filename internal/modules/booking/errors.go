package booking

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("booking not found")
	ErrFieldNotFound        = errors.New("field not found")
	ErrSlotTaken            = errors.New("slot already booked")
	ErrInvalidStatus        = errors.New("invalid status transition")
	ErrForbidden            = errors.New("forbidden")
	ErrEquipmentUnavailable = errors.New("equipment not available")

	ErrNotConfirmed    = errors.New("booking not confirmed")
	ErrNoticeTooShort  = errors.New("cancellation notice too short")
	ErrRefundRequested = errors.New("refund already requested")
	ErrRefundProcessed = errors.New("refund already processed")
)
