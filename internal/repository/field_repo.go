package repository

import (
	"context"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, f *domain.Field) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	var f domain.Field
	tx := r.db.WithContext(ctx).Preload("Equipment").First(&f, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &f, nil
}

func (r *FieldRepository) List(ctx context.Context, city string, limit, offset int) ([]domain.Field, error) {
	q := r.db.WithContext(ctx).Preload("Equipment").Order("id")
	if city != "" {
		q = q.Where("city = ?", city)
	}

	var fields []domain.Field
	tx := q.Limit(limit).Offset(offset).Find(&fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return fields, nil
}
