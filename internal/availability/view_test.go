package availability

import (
	"reflect"
	"testing"
)

func sampleWeek() *WeeklyAvailability {
	return &WeeklyAvailability{
		MentorID: "mentor-1",
		Timezone: "Europe/Berlin",
		Days: []DaySchedule{
			{Day: "Wednesday", TimeRanges: []TimeRange{{StartTime: "13:00", EndTime: "14:30"}}},
			{Day: "Monday", TimeRanges: []TimeRange{
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "16:00", EndTime: "17:00"},
			}},
			{Day: "Friday"},
		},
	}
}

func TestSummarizeSlotCount(t *testing.T) {
	summary := Summarize(sampleWeek().Days)
	if summary.TotalSlots != 3 {
		t.Fatalf("TotalSlots = %d, want 3", summary.TotalSlots)
	}
	if summary.DayLabel != "Mon, Wed, Fri" {
		t.Fatalf("DayLabel = %q", summary.DayLabel)
	}
	if summary.Text() != "3 slots · Mon, Wed, Fri" {
		t.Fatalf("Text = %q", summary.Text())
	}
}

func TestSummaryTextSingular(t *testing.T) {
	summary := Summary{TotalSlots: 1, DayLabel: "Tue"}
	if summary.Text() != "1 slot · Tue" {
		t.Fatalf("Text = %q", summary.Text())
	}
}

func TestValidityCaption(t *testing.T) {
	tests := []struct {
		name      string
		dateRange *DateRange
		want      string
		wantOK    bool
	}{
		{name: "absent", dateRange: nil},
		{name: "both_empty", dateRange: &DateRange{}},
		{name: "start_only", dateRange: &DateRange{StartDate: "2026-01-01"}},
		{name: "end_only", dateRange: &DateRange{EndDate: "2026-03-31"}},
		{name: "blank_end", dateRange: &DateRange{StartDate: "2026-01-01", EndDate: "  "}},
		{
			name:      "both",
			dateRange: &DateRange{StartDate: "2026-01-01", EndDate: "2026-03-31"},
			want:      "Valid from 2026-01-01 to 2026-03-31",
			wantOK:    true,
		},
		{
			name:      "padding_kept_as_received",
			dateRange: &DateRange{StartDate: " 2026-01-01", EndDate: "2026-03-31 "},
			want:      "Valid from  2026-01-01 to 2026-03-31 ",
			wantOK:    true,
		},
		{
			name:      "not_a_date_passes_through",
			dateRange: &DateRange{StartDate: "someday", EndDate: "2026-02-30"},
			want:      "Valid from someday to 2026-02-30",
			wantOK:    true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ValidityCaption(test.dateRange)
			if ok != test.wantOK || got != test.want {
				t.Fatalf("ValidityCaption = (%q, %t), want (%q, %t)", got, ok, test.want, test.wantOK)
			}
		})
	}
}

func TestSelectViewEmpty(t *testing.T) {
	tests := []struct {
		name string
		data *WeeklyAvailability
		opts Options
	}{
		{name: "nil_data", data: nil},
		{name: "nil_days", data: &WeeklyAvailability{MentorID: "m"}},
		{name: "empty_days_compact", data: &WeeklyAvailability{Days: []DaySchedule{}}, opts: Options{Compact: true}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			view := SelectView(test.data, test.opts)
			if view.State != ViewEmpty {
				t.Fatalf("state = %s, want empty", view.State)
			}
			if view.Message != "No availability schedule set" {
				t.Fatalf("message = %q", view.Message)
			}
			if view.Summary != nil || view.Days != nil {
				t.Fatalf("empty view carries data: %+v", view)
			}
		})
	}
}

func TestSelectViewCompact(t *testing.T) {
	view := SelectView(sampleWeek(), Options{Compact: true})
	if view.State != ViewCompact {
		t.Fatalf("state = %s, want compact", view.State)
	}
	if view.Summary == nil || view.Summary.TotalSlots != 3 {
		t.Fatalf("summary = %+v", view.Summary)
	}
	if view.SummaryText != "3 slots · Mon, Wed, Fri" {
		t.Fatalf("summary text = %q", view.SummaryText)
	}
	if view.Title != "" {
		t.Fatalf("title set without ShowTitle: %q", view.Title)
	}
	if view.Days != nil {
		t.Fatalf("compact view rendered days")
	}
}

func TestSelectViewFull(t *testing.T) {
	week := sampleWeek()
	week.DateRange = &DateRange{StartDate: "2026-01-05", EndDate: "2026-06-30"}

	view := SelectView(week, Options{ShowTitle: true})
	if view.State != ViewFull {
		t.Fatalf("state = %s, want full", view.State)
	}
	if view.Title != DefaultTitle {
		t.Fatalf("title = %q", view.Title)
	}

	want := []DayView{
		{Label: "Monday", Ranges: []string{"9:00 AM - 10:00 AM", "4:00 PM - 5:00 PM"}, Available: true},
		{Label: "Wednesday", Ranges: []string{"1:00 PM - 2:30 PM"}, Available: true},
		{Label: "Friday", Message: "Not available"},
	}
	if !reflect.DeepEqual(view.Days, want) {
		t.Fatalf("days = %+v, want %+v", view.Days, want)
	}
	if view.TimezoneCaption != "Timezone: Europe/Berlin" {
		t.Fatalf("timezone caption = %q", view.TimezoneCaption)
	}
	if view.ValidityCaption != "Valid from 2026-01-05 to 2026-06-30" {
		t.Fatalf("validity caption = %q", view.ValidityCaption)
	}
}

func TestSelectViewFullWithoutCaptions(t *testing.T) {
	week := sampleWeek()
	week.Timezone = ""
	week.DateRange = &DateRange{StartDate: "2026-01-05"}

	view := SelectView(week, Options{})
	if view.TimezoneCaption != "" || view.ValidityCaption != "" {
		t.Fatalf("unexpected captions: %q %q", view.TimezoneCaption, view.ValidityCaption)
	}
}

func TestSelectViewDoesNotMutateSnapshot(t *testing.T) {
	week := sampleWeek()
	before := dayNames(week.Days)

	_ = SelectView(week, Options{})

	if !reflect.DeepEqual(dayNames(week.Days), before) {
		t.Fatalf("snapshot reordered: %v", dayNames(week.Days))
	}
}
