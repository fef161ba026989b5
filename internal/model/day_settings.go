package model

// DaySettingsID is the primary key of the singleton settings row.
const DaySettingsID = 1

// DaySettings 全局的一天开始/结束配置
type DaySettings struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	DayBeginTime   string `gorm:"size:5;not null" json:"dayBeginTime" binding:"required"`
	DayEndTime     string `gorm:"size:5;not null" json:"dayEndTime" binding:"required"`
	DayBeginPoints int    `gorm:"default:0" json:"dayBeginPoints"`
	DayEndPoints   int    `gorm:"default:0" json:"dayEndPoints"`
	Timestamps
}

func (DaySettings) TableName() string {
	return "day_settings"
}

func DefaultDaySettings() DaySettings {
	return DaySettings{
		ID:             DaySettingsID,
		DayBeginTime:   "06:00",
		DayEndTime:     "22:00",
		DayBeginPoints: 10,
		DayEndPoints:   10,
	}
}
