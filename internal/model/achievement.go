package model

import "time"

// Achievement 可解锁的成就，完成后一次性奖励积分
type Achievement struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"size:255" json:"description"`
	Points      int        `gorm:"default:0" json:"points"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Icon        string     `gorm:"size:32" json:"icon"`
	Timestamps
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementUpdate enumerates the mutable fields of an achievement.
type AchievementUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Points      *int    `json:"points"`
	Icon        *string `json:"icon"`
	Completed   *bool   `json:"completed"`
}
