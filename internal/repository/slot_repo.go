package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// GetByFieldAndDate looks the slot set up by day interval rather than
// equality, so it is robust to how the backend round-trips midnight.
func (r *SlotRepository) GetByFieldAndDate(ctx context.Context, fieldID int64, day time.Time) (*domain.DaySlotSet, error) {
	var set domain.DaySlotSet
	tx := r.db.WithContext(ctx).
		Where("field_id = ? AND date >= ? AND date < ?", fieldID, day, day.AddDate(0, 0, 1)).
		First(&set)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &set, nil
}

func (r *SlotRepository) HasAny(ctx context.Context, fieldID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&domain.DaySlotSet{}).
		Where("field_id = ?", fieldID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *SlotRepository) CreateBatch(ctx context.Context, sets []domain.DaySlotSet) error {
	if len(sets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sets).Error
}
