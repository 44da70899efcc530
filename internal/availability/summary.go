package availability

import (
	"fmt"
	"strings"
)

const dayAbbrevLength = 3

// Summary is the condensed form of a schedule used by the compact view.
type Summary struct {
	TotalSlots int    `json:"totalSlots"`
	DayLabel   string `json:"dayLabel"`
}

// Text renders the summary as the single line shown in compact mode.
func (s Summary) Text() string {
	noun := "slots"
	if s.TotalSlots == 1 {
		noun = "slot"
	}
	if s.DayLabel == "" {
		return fmt.Sprintf("%d %s", s.TotalSlots, noun)
	}
	return fmt.Sprintf("%d %s · %s", s.TotalSlots, noun, s.DayLabel)
}

// Summarize counts the time ranges across days and abbreviates the day names
// in normalized order. Days without ranges still appear in the label.
func Summarize(days []DaySchedule) Summary {
	normalized := Normalize(days)

	total := 0
	labels := make([]string, 0, len(normalized))
	for _, day := range normalized {
		total += len(day.TimeRanges)
		labels = append(labels, abbreviateDay(day.Day))
	}

	return Summary{
		TotalSlots: total,
		DayLabel:   strings.Join(labels, ", "),
	}
}

func abbreviateDay(day string) string {
	runes := []rune(day)
	if len(runes) <= dayAbbrevLength {
		return day
	}
	return string(runes[:dayAbbrevLength])
}

// ValidityCaption returns the date range caption when both ends are set.
// Dates are shown as received; no calendar parsing is done.
func ValidityCaption(dateRange *DateRange) (string, bool) {
	if dateRange == nil {
		return "", false
	}
	if strings.TrimSpace(dateRange.StartDate) == "" || strings.TrimSpace(dateRange.EndDate) == "" {
		return "", false
	}
	return fmt.Sprintf("Valid from %s to %s", dateRange.StartDate, dateRange.EndDate), true
}

// TimezoneCaption returns the timezone caption when a timezone is set.
func TimezoneCaption(timezone string) (string, bool) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return "", false
	}
	return "Timezone: " + timezone, true
}
