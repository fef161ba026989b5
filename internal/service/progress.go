package service

import (
	"math"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"sort"
	"time"
)

// CheckpointBeforeStart is returned while the clock is earlier than every checkpoint of the day.
const CheckpointBeforeStart = "before-start"

type checkpoint struct {
	id      string
	minutes int
}

// CurrentCheckpoint returns the id of the last schedule event at or before now.
// Events with an unparsable time are left out of the timeline.
func CurrentCheckpoint(record *model.DailyRecord, now time.Time) string {
	var events []checkpoint
	if m, err := util.MinutesOfDay(record.DayBeginTime); err == nil {
		events = append(events, checkpoint{id: model.DayBeginTemplateID, minutes: m})
	}
	for _, meal := range record.Meals {
		if m, err := util.MinutesOfDay(meal.ScheduledTime); err == nil {
			events = append(events, checkpoint{id: meal.ID, minutes: m})
		}
	}
	if m, err := util.MinutesOfDay(record.DayEndTime); err == nil {
		events = append(events, checkpoint{id: model.DayEndTemplateID, minutes: m})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].minutes < events[j].minutes
	})

	current := now.Hour()*60 + now.Minute()
	result := CheckpointBeforeStart
	for _, e := range events {
		if e.minutes > current {
			break
		}
		result = e.id
	}
	return result
}

// dayCompleted reports whether every meal of the day reached a completed status.
func dayCompleted(record *model.DailyRecord) bool {
	if len(record.Meals) == 0 {
		return false
	}
	for _, meal := range record.Meals {
		if !meal.Status.Completed() {
			return false
		}
	}
	return true
}

// CalculateStreak counts consecutive fully completed days, most recent record first.
func CalculateStreak(records []model.DailyRecord) int {
	sorted := make([]model.DailyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	streak := 0
	for i := range sorted {
		if !dayCompleted(&sorted[i]) {
			break
		}
		streak++
	}
	return streak
}

// CalculatePunctuality is the rounded percentage of meals completed on time.
func CalculatePunctuality(record *model.DailyRecord) int {
	if record == nil || len(record.Meals) == 0 {
		return 0
	}
	onTime := 0
	for _, meal := range record.Meals {
		if meal.Status == model.MealCompletedOnTime {
			onTime++
		}
	}
	return int(math.Round(float64(onTime) / float64(len(record.Meals)) * 100))
}
