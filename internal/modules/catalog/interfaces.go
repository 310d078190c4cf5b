package catalog

import (
	"context"

	"fieldbook/internal/domain"
)

type FieldRepository interface {
	Create(ctx context.Context, f *domain.Field) error
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
	List(ctx context.Context, city string, limit, offset int) ([]domain.Field, error)
}

// GridGenerator pre-builds the slot grid a new field is booked against.
type GridGenerator interface {
	EnsureHorizon(ctx context.Context, fieldID int64) error
}

type StatsReader interface {
	FieldStats(ctx context.Context, fieldID int64) (*domain.FieldStats, error)
	FieldAverageRating(ctx context.Context, fieldID int64) (float64, error)
}
