package repository

import (
	"context"
	"errors"
	"marketpay/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type settingRepoImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepoImpl{
		db: db,
	}
}

func (r *settingRepoImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return setting.Value, true, nil
}

func (r *settingRepoImpl) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingRepoImpl) All(ctx context.Context) (map[string]string, error) {
	var settings []*model.Setting
	err := r.db.WithContext(ctx).Find(&settings).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}

	return out, nil
}
