package model

import "time"

type NotificationType string

const (
	NotificationMealCompleted       NotificationType = "meal_completed"
	NotificationAchievementUnlocked NotificationType = "achievement_unlocked"
	NotificationBonusPoints         NotificationType = "bonus_points"
	NotificationLevelUp             NotificationType = "level_up"
)

// Notification 每个参与者的追加式通知，只允许修改 read
type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    Participant      `gorm:"index:idx_notification_user_read;type:varchar(20);not null" json:"-"`
	Type      NotificationType `gorm:"size:32;not null" json:"type"`
	Title     string           `gorm:"size:100" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Points    *int             `json:"points,omitempty"`
	Timestamp time.Time        `gorm:"index" json:"timestamp"`
	Read      bool             `gorm:"column:is_read;index:idx_notification_user_read;default:false" json:"read"`
	Icon      string           `gorm:"size:32" json:"icon"`
}

func (Notification) TableName() string {
	return "notifications"
}
