// Package availability holds the weekly availability model shown on mentor
// profiles: canonical day ordering, display formatting and view selection.
package availability

import (
	"errors"
	"strings"
)

var (
	ErrUnknownDay        = errors.New("unknown day name")
	ErrUnsupportedSchema = errors.New("unsupported availability schema version")
)

// Weekdays lists the canonical day names in render order.
var Weekdays = [...]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

type TimeRange struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type DaySchedule struct {
	Day        string      `json:"day"`
	TimeRanges []TimeRange `json:"timeRanges"`
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// WeeklyAvailability is a snapshot of one mentor's recurring schedule.
// Holders replace it on every fetch and never modify it in place.
type WeeklyAvailability struct {
	MentorID  string
	Timezone  string
	DateRange *DateRange
	Days      []DaySchedule
}

// DayIndex returns the canonical position of day (0 for Monday) and whether
// the name is one of the seven canonical weekdays.
func DayIndex(day string) (int, bool) {
	for i, name := range Weekdays {
		if name == day {
			return i, true
		}
	}
	return -1, false
}

// CanonicalDay maps a day name to its canonical spelling, ignoring case and
// surrounding whitespace.
func CanonicalDay(day string) (string, bool) {
	trimmed := strings.TrimSpace(day)
	for _, name := range Weekdays {
		if strings.EqualFold(name, trimmed) {
			return name, true
		}
	}
	return day, false
}
