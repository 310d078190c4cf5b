package catalog

import (
	"context"
	"errors"
	"math"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/cache"
	"fieldbook/internal/pkg/validator"

	"gorm.io/gorm"
)

type Service struct {
	fields FieldRepository
	stats  StatsReader
	grid   GridGenerator
	cache  *cache.Cache
}

func NewService(fields FieldRepository, stats StatsReader, grid GridGenerator, c *cache.Cache) *Service {
	return &Service{fields: fields, stats: stats, grid: grid, cache: c}
}

func (s *Service) CreateField(ctx context.Context, ownerID int64, req *CreateFieldRequest) (*domain.Field, error) {
	f := &domain.Field{
		OwnerID:      ownerID,
		Name:         req.Name,
		Sport:        req.Sport,
		Address:      req.Address,
		City:         req.City,
		PricePerSlot: req.PricePerSlot,
		Capacity:     req.Capacity,
		HasLocker:    req.HasLocker,
		LockerPrice:  req.LockerPrice,
	}
	for _, e := range req.Equipment {
		f.Equipment = append(f.Equipment, domain.Equipment{
			Name:      e.Name,
			Price:     e.Price,
			Available: e.Available,
		})
	}
	if errs := validator.Validate(f); errs != nil {
		return nil, ErrValidation
	}

	if err := s.fields.Create(ctx, f); err != nil {
		return nil, err
	}

	// The booking grid is generated up front; availability reads only
	// regenerate it if the rows go missing.
	if err := s.grid.EnsureHorizon(ctx, f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) ListFields(ctx context.Context, city string, limit, offset int) ([]domain.Field, error) {
	return s.fields.List(ctx, city, limit, offset)
}

// GetField returns the field together with its rating. The rating is
// recomputed from reviews on every read rather than stored on the field.
func (s *Service) GetField(ctx context.Context, id int64) (*FieldDetail, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	avg, err := s.stats.FieldAverageRating(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FieldDetail{Field: f, Rating: round1(avg)}, nil
}

// GetFieldStats aggregates the field's booking count, confirmed revenue
// and rating. The result is cached; booking mutations invalidate the key.
func (s *Service) GetFieldStats(ctx context.Context, id int64) (*FieldStatsResponse, error) {
	key := cache.FieldStatsKey(id)

	var cached FieldStatsResponse
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	if _, err := s.fields.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	stats, err := s.stats.FieldStats(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, err := s.stats.FieldAverageRating(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &FieldStatsResponse{
		FieldID:  id,
		Bookings: stats.Bookings,
		Revenue:  stats.Revenue,
		Rating:   round1(avg),
	}
	s.cache.SetJSON(ctx, key, resp)
	return resp, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
