package service

import (
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/util"
	"sync"
	"time"
)

// Calendar resolves "today" in the configured timezone. Apply swaps the schedule on config reload.
type Calendar struct {
	mu          sync.RWMutex
	loc         *time.Location
	historyDays int
	defaultNote string

	// Now is the wall clock, replaceable in tests.
	Now func() time.Time
}

func NewCalendar(cfg config.ScheduleConfig) *Calendar {
	c := &Calendar{Now: time.Now}
	c.Apply(cfg)
	return c
}

func (c *Calendar) Apply(cfg config.ScheduleConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = cfg.Location()
	c.historyDays = cfg.HistoryDays
	if c.historyDays <= 0 {
		c.historyDays = 90
	}
	c.defaultNote = cfg.DefaultNote
}

func (c *Calendar) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loc
}

// Clock is the current instant in the configured zone.
func (c *Calendar) Clock() time.Time {
	return c.Now().In(c.Location())
}

func (c *Calendar) Today() string {
	return util.DateKey(c.Now(), c.Location())
}

func (c *Calendar) HistoryDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyDays
}

func (c *Calendar) DefaultNote() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultNote
}
