package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormBackend is the GORM implementation of Backend. T must be a gorm model
// whose primary key column is "id".
type GormBackend[T Entity] struct {
	db *gorm.DB
}

// NewGormBackend creates a new GORM-based backend
func NewGormBackend[T Entity](db *gorm.DB) *GormBackend[T] {
	return &GormBackend[T]{db: db}
}

func (r *GormBackend[T]) Insert(ctx context.Context, rec T) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", rec.EntityID()).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateID
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *GormBackend[T]) Update(ctx context.Context, rec T) error {
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", rec.EntityID()).
		Select("*").
		Updates(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRecord
	}
	return nil
}

func (r *GormBackend[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRecord
	}
	return nil
}

func (r *GormBackend[T]) Get(ctx context.Context, id int64) (T, error) {
	var rec T
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNoRecord
	}
	return rec, err
}

func (r *GormBackend[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}
