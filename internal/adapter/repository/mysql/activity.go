package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"proposal-review-service/internal/domain/activity"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) GetWithTemplates(ctx context.Context, id string) (*activity.Activity, error) {
	var out activity.Activity
	err := r.db.WithContext(ctx).
		Preload("Templates", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, name ASC")
		}).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, activity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
