package repository

import (
	"context"
	"marketpay/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	// FanOut writes one notification row per recipient.
	FanOut(ctx context.Context, userIDs []uint, title, body string) error
	ListByUser(ctx context.Context, userID uint) ([]*model.Notification, error)
}

type notificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepoImpl{
		db: db,
	}
}

func (r *notificationRepoImpl) FanOut(ctx context.Context, userIDs []uint, title, body string) error {
	if len(userIDs) == 0 {
		return nil
	}

	notifications := make([]*model.Notification, len(userIDs))
	for i, id := range userIDs {
		notifications[i] = &model.Notification{
			UserID: id,
			Title:  title,
			Body:   body,
		}
	}

	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	return notifications, nil
}
