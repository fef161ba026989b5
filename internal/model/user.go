package model

import (
	"time"
)

// Participant is one of the two fixed dashboard identities.
type Participant string

const (
	// ParticipantTracker logs meals and earns points.
	ParticipantTracker Participant = "tracker"
	// ParticipantGuide marks outcomes, awards bonuses and manages configuration.
	ParticipantGuide Participant = "guide"
)

func (p Participant) Valid() bool {
	return p == ParticipantTracker || p == ParticipantGuide
}

func (p Participant) DisplayName() string {
	switch p {
	case ParticipantTracker:
		return "Tracker"
	case ParticipantGuide:
		return "Guide"
	}
	return string(p)
}

// UserProfile 用户的累计积分与统计
// swagger:model UserProfile
type UserProfile struct {
	ID                  Participant `gorm:"primaryKey;type:varchar(20)" json:"id"`
	Name                string      `gorm:"size:100;not null" json:"name"`
	TotalPoints         int         `gorm:"default:0" json:"totalPoints"`
	CurrentLevel        int         `gorm:"default:0" json:"currentLevel"`
	CurrentStreak       int         `gorm:"default:0" json:"currentStreak"`
	BestStreak          int         `gorm:"default:0" json:"bestStreak"`
	TotalMealsCompleted int         `gorm:"default:0" json:"totalMealsCompleted"`
	TotalMealsOnTime    int         `gorm:"default:0" json:"totalMealsOnTime"`
	JoinedDate          string      `gorm:"size:10" json:"joinedDate"`
	LastActiveDate      string      `gorm:"size:10" json:"lastActiveDate"`
	Version             int64       `gorm:"default:0" json:"version"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
