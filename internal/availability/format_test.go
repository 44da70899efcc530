package availability

import "testing"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "midnight", value: "00:00", want: "12:00 AM"},
		{name: "noon", value: "12:00", want: "12:00 PM"},
		{name: "afternoon", value: "13:30", want: "1:30 PM"},
		{name: "morning_leading_zero", value: "09:05", want: "9:05 AM"},
		{name: "late_evening", value: "23:59", want: "11:59 PM"},
		{name: "single_digit_hour", value: "7:15", want: "7:15 AM"},
		{name: "minutes_kept_verbatim", value: "14:5", want: "2:5 PM"},
		{name: "seconds_kept_verbatim", value: "18:00:00", want: "6:00:00 PM"},
		{name: "no_separator", value: "bad-input", want: "bad-input"},
		{name: "non_numeric_hour", value: "ab:30", want: "ab:30"},
		{name: "hour_out_of_range", value: "24:00", want: "24:00"},
		{name: "signed_hour", value: "-1:00", want: "-1:00"},
		{name: "empty", value: "", want: ""},
		{name: "missing_hour", value: ":30", want: ":30"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := FormatTime(test.value); got != test.want {
				t.Fatalf("FormatTime(%q) = %q, want %q", test.value, got, test.want)
			}
		})
	}
}

func TestFormatRange(t *testing.T) {
	got := FormatRange(TimeRange{StartTime: "09:00", EndTime: "17:30"})
	if got != "9:00 AM - 5:30 PM" {
		t.Fatalf("FormatRange = %q", got)
	}

	got = FormatRange(TimeRange{StartTime: "soon", EndTime: "12:15"})
	if got != "soon - 12:15 PM" {
		t.Fatalf("FormatRange with malformed start = %q", got)
	}
}
