package availability

import (
	"errors"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	raw := []byte(`{
		"availability": {
			"timezone": "America/New_York",
			"dateRange": {"startDate": "2026-01-01", "endDate": "2026-04-01"},
			"availability": [
				{"day": "friday", "timeRanges": [{"startTime": "10:00", "endTime": "12:00"}]},
				{"day": " Monday ", "timeRanges": []}
			]
		}
	}`)

	week, err := DecodePayload("mentor-7", SchemaV1, raw)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	if week == nil {
		t.Fatalf("DecodePayload returned nil schedule")
	}
	if week.MentorID != "mentor-7" {
		t.Fatalf("mentor id = %q", week.MentorID)
	}
	if week.Timezone != "America/New_York" {
		t.Fatalf("timezone = %q", week.Timezone)
	}
	if week.DateRange == nil || week.DateRange.EndDate != "2026-04-01" {
		t.Fatalf("date range = %+v", week.DateRange)
	}
	if len(week.Days) != 2 || week.Days[0].Day != "Friday" || week.Days[1].Day != "Monday" {
		t.Fatalf("days = %+v", week.Days)
	}
	if len(week.Days[0].TimeRanges) != 1 || week.Days[0].TimeRanges[0].EndTime != "12:00" {
		t.Fatalf("ranges = %+v", week.Days[0].TimeRanges)
	}
}

func TestDecodePayloadNoSchedule(t *testing.T) {
	for _, raw := range []string{"", "null", "{}", `{"availability": null}`} {
		week, err := DecodePayload("m", SchemaV1, []byte(raw))
		if err != nil {
			t.Fatalf("DecodePayload(%q) error: %v", raw, err)
		}
		if week != nil {
			t.Fatalf("DecodePayload(%q) = %+v, want nil", raw, week)
		}
	}
}

func TestDecodePayloadUnknownDay(t *testing.T) {
	raw := []byte(`{"availability": {"availability": [{"day": "Monday"}, {"day": "Caturday"}]}}`)

	_, err := DecodePayload("m", SchemaV1, raw)
	if !errors.Is(err, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %v", err)
	}
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fieldErr.Field != "availability.availability[1].day" {
		t.Fatalf("field = %q", fieldErr.Field)
	}
}

func TestDecodePayloadUnsupportedVersion(t *testing.T) {
	_, err := DecodePayload("m", 2, []byte(`{}`))
	if !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestDecodePayloadMalformedJSON(t *testing.T) {
	_, err := DecodePayload("m", SchemaV1, []byte(`{"availability": [`))
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEncodePayloadRoundTrip(t *testing.T) {
	week := &WeeklyAvailability{
		MentorID: "m",
		Timezone: "UTC",
		Days:     []DaySchedule{{Day: "Tuesday", TimeRanges: []TimeRange{{StartTime: "08:00", EndTime: "09:00"}}}},
	}

	data, err := EncodePayload(week)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}
	decoded, err := DecodePayload("m", SchemaV1, data)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	if decoded.Timezone != "UTC" || len(decoded.Days) != 1 || decoded.Days[0].Day != "Tuesday" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
