package source

import (
	"context"
	"errors"
	"testing"

	"github.com/codr1/mentorhours/internal/availability"
	"github.com/codr1/mentorhours/internal/testutil"
)

const samplePayload = `{
	"availability": {
		"timezone": "UTC",
		"availability": [
			{"day": "Wednesday", "timeRanges": [{"startTime": "13:00", "endTime": "14:00"}]},
			{"day": "Monday", "timeRanges": [{"startTime": "09:00", "endTime": "10:00"}]}
		]
	}
}`

func setupStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(testutil.NewTestDB(t))
	err := store.PutMentor(context.Background(), MentorProfile{ID: "mentor-1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("put mentor: %v", err)
	}
	return store
}

func TestStoreFetch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.PutDocument(ctx, "mentor-1", []byte(samplePayload)); err != nil {
		t.Fatalf("put document: %v", err)
	}

	week, err := store.Fetch(ctx, "mentor-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if week == nil {
		t.Fatalf("fetch returned nil schedule")
	}
	if week.MentorID != "mentor-1" || week.Timezone != "UTC" {
		t.Fatalf("week = %+v", week)
	}
	if len(week.Days) != 2 || week.Days[0].Day != "Wednesday" {
		t.Fatalf("stored order not kept: %+v", week.Days)
	}
}

func TestStoreFetchWithoutDocument(t *testing.T) {
	store := setupStore(t)

	week, err := store.Fetch(context.Background(), "mentor-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if week != nil {
		t.Fatalf("expected no schedule, got %+v", week)
	}
}

func TestStoreFetchUnknownMentor(t *testing.T) {
	store := setupStore(t)

	_, err := store.Fetch(context.Background(), "nobody")
	if !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("expected ErrMentorNotFound, got %v", err)
	}
}

func TestStorePutDocumentRejectsUnknownDay(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.PutDocument(ctx, "mentor-1", []byte(`{"availability": {"availability": [{"day": "Someday"}]}}`))
	if !errors.Is(err, availability.ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %v", err)
	}
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}

	week, err := store.Fetch(ctx, "mentor-1")
	if err != nil || week != nil {
		t.Fatalf("rejected payload was stored: %+v, %v", week, err)
	}
}

func TestStorePutDocumentUnknownMentor(t *testing.T) {
	store := setupStore(t)

	err := store.PutDocument(context.Background(), "nobody", []byte(samplePayload))
	if !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("expected ErrMentorNotFound, got %v", err)
	}
}

func TestStorePutMentorDocument(t *testing.T) {
	store := NewStore(testutil.NewTestDB(t))
	ctx := context.Background()

	profile := MentorProfile{ID: "mentor-9", Name: "Linus", Email: "linus@example.com"}
	if err := store.PutMentorDocument(ctx, profile, []byte(`{"availability": {"availability": [{"day": "Funday"}]}}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if _, err := store.Fetch(ctx, "mentor-9"); !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("invalid payload should not create the mentor, got %v", err)
	}

	if err := store.PutMentorDocument(ctx, profile, []byte(samplePayload)); err != nil {
		t.Fatalf("put mentor document: %v", err)
	}
	week, err := store.Fetch(ctx, "mentor-9")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if week == nil || len(week.Days) != 2 {
		t.Fatalf("unexpected week: %+v", week)
	}
}

func TestStoreListMentorsWithEmail(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.PutMentor(ctx, MentorProfile{ID: "mentor-2", Name: "Grace"}); err != nil {
		t.Fatalf("put mentor: %v", err)
	}

	mentors, err := store.ListMentorsWithEmail(ctx)
	if err != nil {
		t.Fatalf("list mentors: %v", err)
	}
	if len(mentors) != 1 || mentors[0].Email != "ada@example.com" {
		t.Fatalf("mentors = %+v", mentors)
	}
}
