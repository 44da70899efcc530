package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime converts a 24-hour "HH:MM" value to a 12-hour display string.
// Minutes are kept exactly as given. Anything that does not start with an
// hour between 0 and 23 followed by a colon is returned unchanged.
func FormatTime(raw string) string {
	hourPart, minutes, ok := strings.Cut(raw, ":")
	if !ok || hourPart == "" || !isDigits(hourPart) {
		return raw
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour > 23 {
		return raw
	}

	switch {
	case hour == 0:
		return fmt.Sprintf("12:%s AM", minutes)
	case hour == 12:
		return fmt.Sprintf("12:%s PM", minutes)
	case hour > 12:
		return fmt.Sprintf("%d:%s PM", hour-12, minutes)
	default:
		return fmt.Sprintf("%d:%s AM", hour, minutes)
	}
}

// FormatRange renders a range as "start - end" using FormatTime on both ends.
func FormatRange(r TimeRange) string {
	return FormatTime(r.StartTime) + " - " + FormatTime(r.EndTime)
}

func isDigits(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
