package availability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaV1 is the only payload version currently produced by schedule sources.
const SchemaV1 = 1

type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// PayloadV1 is the fetch response envelope:
//
//	{"availability": {"timezone": ..., "dateRange": {...}, "availability": [...]}}
//
// The inner day list shares the name of the outer field. Use Schedule and
// ScheduleV1.DayList instead of walking the fields directly.
type PayloadV1 struct {
	Availability *ScheduleV1 `json:"availability"`
}

type ScheduleV1 struct {
	Timezone     string        `json:"timezone,omitempty"`
	DateRange    *DateRange    `json:"dateRange,omitempty"`
	Availability []DaySchedule `json:"availability"`
}

// Schedule returns the schedule document, or nil when the envelope is empty.
func (p PayloadV1) Schedule() *ScheduleV1 {
	return p.Availability
}

// DayList returns the per-day entries carried in the inner "availability" field.
func (s *ScheduleV1) DayList() []DaySchedule {
	if s == nil {
		return nil
	}
	return s.Availability
}

// DecodePayload parses a payload of the given schema version into a
// WeeklyAvailability for mentorID. A payload whose envelope is empty or null
// decodes to nil with no error, meaning no schedule is set. Day names are
// canonicalized; names outside Monday..Sunday are rejected.
func DecodePayload(mentorID string, version int, data []byte) (*WeeklyAvailability, error) {
	if version != SchemaV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var payload PayloadV1
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("decode availability payload: %w", err)
	}
	return payload.ToWeekly(mentorID)
}

// ToWeekly validates the payload and converts it to the domain model.
func (p PayloadV1) ToWeekly(mentorID string) (*WeeklyAvailability, error) {
	schedule := p.Schedule()
	if schedule == nil {
		return nil, nil
	}

	entries := schedule.DayList()
	days := make([]DaySchedule, 0, len(entries))
	for i, entry := range entries {
		name, ok := CanonicalDay(entry.Day)
		if !ok {
			return nil, FieldError{
				Field:  fmt.Sprintf("availability.availability[%d].day", i),
				Reason: fmt.Sprintf("must be a weekday name, got %q", entry.Day),
				Err:    ErrUnknownDay,
			}
		}
		ranges := make([]TimeRange, len(entry.TimeRanges))
		copy(ranges, entry.TimeRanges)
		days = append(days, DaySchedule{Day: name, TimeRanges: ranges})
	}

	var dateRange *DateRange
	if schedule.DateRange != nil {
		dr := *schedule.DateRange
		dateRange = &dr
	}

	return &WeeklyAvailability{
		MentorID:  mentorID,
		Timezone:  strings.TrimSpace(schedule.Timezone),
		DateRange: dateRange,
		Days:      days,
	}, nil
}

// EncodePayload renders w back into the v1 envelope.
func EncodePayload(w *WeeklyAvailability) ([]byte, error) {
	if w == nil {
		return json.Marshal(PayloadV1{})
	}
	days := w.Days
	if days == nil {
		days = []DaySchedule{}
	}
	return json.Marshal(PayloadV1{
		Availability: &ScheduleV1{
			Timezone:     w.Timezone,
			DateRange:    w.DateRange,
			Availability: days,
		},
	})
}
