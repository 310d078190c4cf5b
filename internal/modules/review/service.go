package review

import (
	"context"
	"errors"
	"math"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

// BookingGate is the slice of booking storage the review rules need.
type BookingGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	AttachReview(ctx context.Context, id int64, rating int, comment string) (int64, error)
	FieldAverageRating(ctx context.Context, fieldID int64) (float64, error)
}

type Service struct {
	bookings BookingGate
}

func NewService(bookings BookingGate) *Service {
	return &Service{bookings: bookings}
}

// Attach sets the one-shot review on a confirmed booking owned by the
// caller. The repository guard (status = confirmed, no rating yet) makes
// the write atomic; a zero-row result after our checks means a concurrent
// attach got there first.
func (s *Service) Attach(ctx context.Context, bookingID, playerID int64, rating int, comment string) (*domain.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRequest
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.PlayerID != playerID {
		return nil, ErrForbidden
	}
	if b.HasReview() {
		return nil, ErrAlreadyReviewed
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrNotConfirmed
	}

	rows, err := s.bookings.AttachReview(ctx, bookingID, rating, comment)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyReviewed
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// FieldRating recomputes the aggregate rating on every read: the mean of
// all review ratings across the field's confirmed bookings, rounded to
// one decimal place. Zero means unrated.
func (s *Service) FieldRating(ctx context.Context, fieldID int64) (float64, error) {
	avg, err := s.bookings.FieldAverageRating(ctx, fieldID)
	if err != nil {
		return 0, err
	}
	return math.Round(avg*10) / 10, nil
}
