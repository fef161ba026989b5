package model

type TemplateType string

const (
	TemplateMeal     TemplateType = "meal"
	TemplateDayBegin TemplateType = "day-begin"
	TemplateDayEnd   TemplateType = "day-end"
)

const (
	DayBeginTemplateID = "day-begin"
	DayEndTemplateID   = "day-end"
)

// MealTemplate 每日餐食的模板，创建每日记录时快照
// swagger:model MealTemplate
type MealTemplate struct {
	ID             string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name           string       `gorm:"size:100;not null" json:"name"`
	ScheduledTime  string       `gorm:"size:5;not null" json:"scheduledTime"`
	PointsOnTime   int          `gorm:"default:0" json:"pointsOnTime"`
	PointsLate     int          `gorm:"default:0" json:"pointsLate"`
	PenaltySkipped int          `gorm:"default:0" json:"penaltySkipped"`
	Order          int          `gorm:"column:sort_order;index;default:0" json:"order"`
	Seq            int64        `gorm:"index;default:0" json:"-"` // insertion order, breaks order ties
	Active         bool         `gorm:"not null" json:"active"`
	Type           TemplateType `gorm:"size:16;default:'meal'" json:"type"`
	Timestamps
}

func (MealTemplate) TableName() string {
	return "meal_templates"
}

// IsDayBoundary reports whether the template is the day-begin or day-end entry.
func (t MealTemplate) IsDayBoundary() bool {
	return t.Type == TemplateDayBegin || t.Type == TemplateDayEnd ||
		t.ID == DayBeginTemplateID || t.ID == DayEndTemplateID
}

// MealTemplateUpdate enumerates the mutable fields of a template.
type MealTemplateUpdate struct {
	Name           *string `json:"name"`
	ScheduledTime  *string `json:"scheduledTime"`
	PointsOnTime   *int    `json:"pointsOnTime"`
	PointsLate     *int    `json:"pointsLate"`
	PenaltySkipped *int    `json:"penaltySkipped"`
	Order          *int    `json:"order"`
	Active         *bool   `json:"active"`
}
