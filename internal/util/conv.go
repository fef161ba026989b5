package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDate 校验 YYYY-MM-DD 日期键
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, Invalid("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// MinutesOfDay converts an HH:MM clock string into minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, Invalid("time %q must be HH:MM", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, Invalid("time %q must be HH:MM", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, Invalid("time %q must be HH:MM", hhmm)
	}
	return h*60 + m, nil
}

// DateKey formats t in loc as a daily record key.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateFormat)
}
