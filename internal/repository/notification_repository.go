package repository

import (
	"context"
	"meal_streak_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return translate("create notification", r.DB.WithContext(ctx).Create(n).Error)
}

// FindUnread returns unread notifications of userID, newest first.
func (r *NotificationRepository) FindUnread(ctx context.Context, userID model.Participant) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("timestamp DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, translate("find unread notifications", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID model.Participant, id string) error {
	result := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return translate("mark notification read", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// mysql reports zero affected rows for an already read notification
	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return translate("mark notification read", err)
	}
	if count == 0 {
		return translate("mark notification read", gorm.ErrRecordNotFound)
	}
	return nil
}
