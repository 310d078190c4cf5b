package availability

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// SlotRepository persists the pre-generated slot grids.
type SlotRepository interface {
	GetByFieldAndDate(ctx context.Context, fieldID int64, day time.Time) (*domain.DaySlotSet, error)
	HasAny(ctx context.Context, fieldID int64) (bool, error)
	CreateBatch(ctx context.Context, sets []domain.DaySlotSet) error
}

// BookingReader exposes the active-booking view the booked flags are
// derived from.
type BookingReader interface {
	ActiveSlotLabels(ctx context.Context, fieldID int64, day time.Time) ([]string, error)
}

// FieldReader resolves field existence.
type FieldReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}
