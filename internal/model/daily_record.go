package model

import (
	"time"

	"gorm.io/datatypes"
)

type MealStatus string

const (
	MealPending         MealStatus = "pending"
	MealCompletedOnTime MealStatus = "completed-on-time"
	MealCompletedLate   MealStatus = "completed-late"
	MealMissed          MealStatus = "missed"
)

func (s MealStatus) Valid() bool {
	switch s {
	case MealPending, MealCompletedOnTime, MealCompletedLate, MealMissed:
		return true
	}
	return false
}

func (s MealStatus) Completed() bool {
	return s == MealCompletedOnTime || s == MealCompletedLate
}

// Meal 每日记录中的餐食实例，积分在创建时从模板快照
type Meal struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ScheduledTime  string     `json:"scheduledTime"`
	PointsOnTime   int        `json:"pointsOnTime"`
	PointsLate     int        `json:"pointsLate"`
	PenaltySkipped int        `json:"penaltySkipped"`
	Status         MealStatus `json:"status"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Date           string     `json:"date"`
}

type BonusPoint struct {
	ID        string    `json:"id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyRecord 每个日历日期一条记录，Date 即主键
// swagger:model DailyRecord
type DailyRecord struct {
	Date           string                          `gorm:"primaryKey;type:varchar(10)" json:"date"`
	DayBeginPoints int                             `gorm:"default:0" json:"dayBeginPoints"`
	DayEndPoints   int                             `gorm:"default:0" json:"dayEndPoints"`
	DayBeginTime   string                          `gorm:"size:5" json:"dayBeginTime"`
	DayEndTime     string                          `gorm:"size:5" json:"dayEndTime"`
	NoteOfTheDay   string                          `gorm:"type:text" json:"noteOfTheDay"`
	Meals          datatypes.JSONSlice[Meal]       `json:"meals"`
	BonusPoints    datatypes.JSONSlice[BonusPoint] `json:"bonusPoints"`
	TotalPoints    int                             `gorm:"default:0" json:"totalPoints"` // cache, recomputed on every mutation
	Version        int64                           `gorm:"default:0" json:"version"`
	Timestamps
}

func (DailyRecord) TableName() string {
	return "daily_records"
}

// FindMeal returns the index of the meal with id, or -1.
func (r *DailyRecord) FindMeal(id string) int {
	for i := range r.Meals {
		if r.Meals[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone copies the record so a mutation can be prepared without touching the loaded one.
func (r *DailyRecord) Clone() *DailyRecord {
	c := *r
	c.Meals = append(datatypes.JSONSlice[Meal](nil), r.Meals...)
	c.BonusPoints = append(datatypes.JSONSlice[BonusPoint](nil), r.BonusPoints...)
	return &c
}
