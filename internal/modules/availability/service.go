package availability

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/cache"

	"gorm.io/gorm"
)

type AvailabilityResponse struct {
	FieldID int64         `json:"field_id"`
	Date    string        `json:"date"`
	Slots   []domain.Slot `json:"slots"`
}

type Service struct {
	slots    SlotRepository
	bookings BookingReader
	fields   FieldReader
	cache    *cache.Cache
	hours    Hours
}

func NewService(slots SlotRepository, bookings BookingReader, fields FieldReader, c *cache.Cache, hours Hours) *Service {
	return &Service{
		slots:    slots,
		bookings: bookings,
		fields:   fields,
		cache:    c,
		hours:    hours,
	}
}

// GetAvailability returns the slot grid for (field, date) with each booked
// flag recomputed from active bookings. The stored flags are never trusted.
// A field whose grid was never generated gets the full horizon lazily; a
// valid field with no grid for an out-of-horizon date gets an empty list.
func (s *Service) GetAvailability(ctx context.Context, fieldID int64, dateStr string) (*AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrValidation
	}
	day = Midnight(day)

	if _, err := s.fields.GetByID(ctx, fieldID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	key := cache.AvailabilityKey(fieldID, dateStr)
	var cached AvailabilityResponse
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	set, err := s.slots.GetByFieldAndDate(ctx, fieldID, day)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		set, err = s.regenerateAndRetry(ctx, fieldID, day)
		if err != nil {
			return nil, err
		}
	}

	resp := &AvailabilityResponse{FieldID: fieldID, Date: dateStr, Slots: []domain.Slot{}}
	if set == nil {
		return resp, nil
	}

	booked, err := s.bookings.ActiveSlotLabels(ctx, fieldID, day)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, label := range booked {
		taken[label] = true
	}

	slots := make([]domain.Slot, 0, len(set.Slots))
	for _, sl := range set.Slots {
		slots = append(slots, domain.Slot{Time: sl.Time, Booked: taken[sl.Time]})
	}
	resp.Slots = slots

	s.cache.SetJSON(ctx, key, resp)
	return resp, nil
}

// EnsureHorizon generates the field's slot grid when none exists yet.
// Idempotent: an already-generated field is left untouched.
func (s *Service) EnsureHorizon(ctx context.Context, fieldID int64) error {
	has, err := s.slots.HasAny(ctx, fieldID)
	if err != nil || has {
		return err
	}
	return s.slots.CreateBatch(ctx, BuildHorizon(fieldID, time.Now(), s.hours))
}

// regenerateAndRetry handles the never-generated case. A nil set with nil
// error means the date is simply outside any generated horizon.
func (s *Service) regenerateAndRetry(ctx context.Context, fieldID int64, day time.Time) (*domain.DaySlotSet, error) {
	has, err := s.slots.HasAny(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if !has {
		if err := s.slots.CreateBatch(ctx, BuildHorizon(fieldID, time.Now(), s.hours)); err != nil {
			return nil, err
		}
	}

	set, err := s.slots.GetByFieldAndDate(ctx, fieldID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return set, nil
}
