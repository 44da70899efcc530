package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/availability"
	"github.com/codr1/mentorhours/internal/db"
)

const storeQueryTimeout = 5 * time.Second

// Store serves schedules from the local sqlite database. Payloads are kept
// in their fetch envelope and decoded on every read.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

type MentorProfile struct {
	ID    string
	Name  string
	Email string
}

func (s *Store) Fetch(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error) {
	mentorID = strings.TrimSpace(mentorID)
	if mentorID == "" {
		return nil, ErrMentorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, storeQueryTimeout)
	defer cancel()

	if _, err := s.db.Queries.GetMentor(ctx, mentorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("load mentor: %w", err)
	}

	doc, err := s.db.Queries.GetAvailabilityDocument(ctx, mentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load availability document: %w", err)
	}

	week, err := availability.DecodePayload(mentorID, int(doc.SchemaVersion), []byte(doc.Payload))
	if err != nil {
		return nil, fmt.Errorf("decode stored availability for %s: %w", mentorID, err)
	}
	return week, nil
}

// PutMentor creates or updates a mentor profile.
func (s *Store) PutMentor(ctx context.Context, profile MentorProfile) error {
	id := strings.TrimSpace(profile.ID)
	if id == "" {
		return availability.FieldError{Field: "mentor_id", Reason: "is required"}
	}
	email := strings.TrimSpace(profile.Email)
	return s.db.Queries.UpsertMentor(ctx, db.UpsertMentorParams{
		ID:    id,
		Name:  strings.TrimSpace(profile.Name),
		Email: sql.NullString{String: email, Valid: email != ""},
	})
}

// PutDocument validates a v1 payload and stores it verbatim for mentorID.
// Payloads that fail validation are rejected before anything is written.
func (s *Store) PutDocument(ctx context.Context, mentorID string, payload []byte) error {
	if _, err := availability.DecodePayload(mentorID, availability.SchemaV1, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	ctx, cancel := context.WithTimeout(ctx, storeQueryTimeout)
	defer cancel()

	if _, err := s.db.Queries.GetMentor(ctx, mentorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMentorNotFound
		}
		return fmt.Errorf("load mentor: %w", err)
	}

	err := s.db.Queries.UpsertAvailabilityDocument(ctx, db.UpsertAvailabilityDocumentParams{
		MentorID:      mentorID,
		SchemaVersion: availability.SchemaV1,
		Payload:       string(payload),
	})
	if err != nil {
		return fmt.Errorf("store availability document: %w", err)
	}

	log.Ctx(ctx).Info().Str("mentor_id", mentorID).Int("bytes", len(payload)).Msg("Stored availability document")
	return nil
}

// PutMentorDocument stores a profile and its payload in one transaction.
func (s *Store) PutMentorDocument(ctx context.Context, profile MentorProfile, payload []byte) error {
	id := strings.TrimSpace(profile.ID)
	if id == "" {
		return availability.FieldError{Field: "mentor_id", Reason: "is required"}
	}
	if _, err := availability.DecodePayload(id, availability.SchemaV1, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	email := strings.TrimSpace(profile.Email)
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		if err := tx.Queries.UpsertMentor(ctx, db.UpsertMentorParams{
			ID:    id,
			Name:  strings.TrimSpace(profile.Name),
			Email: sql.NullString{String: email, Valid: email != ""},
		}); err != nil {
			return fmt.Errorf("store mentor: %w", err)
		}
		if err := tx.Queries.UpsertAvailabilityDocument(ctx, db.UpsertAvailabilityDocumentParams{
			MentorID:      id,
			SchemaVersion: availability.SchemaV1,
			Payload:       string(payload),
		}); err != nil {
			return fmt.Errorf("store availability document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("mentor_id", id).Int("bytes", len(payload)).Msg("Stored mentor and availability document")
	return nil
}

// ListMentorsWithEmail returns mentors that can receive digest mail.
func (s *Store) ListMentorsWithEmail(ctx context.Context) ([]MentorProfile, error) {
	rows, err := s.db.Queries.ListMentorsWithEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	profiles := make([]MentorProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, MentorProfile{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email.String,
		})
	}
	return profiles, nil
}
