package service

import "meal_streak_backend/internal/model"

// LevelInfo describes where a point total sits on the level curve.
type LevelInfo struct {
	CurrentLevel          int     `json:"currentLevel"`
	PointsForCurrentLevel int     `json:"pointsForCurrentLevel"`
	PointsForNextLevel    int     `json:"pointsForNextLevel"`
	ProgressToNext        int     `json:"progressToNext"`
	ProgressPercentage    float64 `json:"progressPercentage"`
}

// MealContribution is the signed point value of a single meal in its current status.
func MealContribution(meal model.Meal) int {
	switch meal.Status {
	case model.MealCompletedOnTime:
		return meal.PointsOnTime
	case model.MealCompletedLate:
		return meal.PointsLate
	case model.MealMissed:
		return -meal.PenaltySkipped
	}
	return 0
}

// CalculateTotalPoints recomputes a day's total. The stored TotalPoints is only a cache of this value.
func CalculateTotalPoints(record *model.DailyRecord) int {
	total := record.DayBeginPoints + record.DayEndPoints
	for _, meal := range record.Meals {
		total += MealContribution(meal)
	}
	for _, bonus := range record.BonusPoints {
		total += bonus.Points
	}
	return total
}

// LevelRequirement is the lifetime total needed to reach level.
// Level 1 opens at 100 points and every further level costs 500 more: level n needs 500(n-1)+100.
func LevelRequirement(level int) int {
	if level <= 0 {
		return 0
	}
	return 500*(level-1) + 100
}

func CalculateLevel(totalPoints int) LevelInfo {
	level := 0
	for totalPoints >= LevelRequirement(level+1) {
		level++
	}

	current := LevelRequirement(level)
	next := LevelRequirement(level + 1)
	progress := totalPoints - current

	percentage := float64(progress) * 100 / float64(next-current)
	if percentage > 100 {
		percentage = 100
	}

	return LevelInfo{
		CurrentLevel:          level,
		PointsForCurrentLevel: current,
		PointsForNextLevel:    next,
		ProgressToNext:        progress,
		ProgressPercentage:    percentage,
	}
}
