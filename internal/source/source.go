// Package source provides the schedule sources that supply raw weekly
// availability for a mentor.
package source

import (
	"context"
	"errors"

	"github.com/codr1/mentorhours/internal/availability"
)

var (
	ErrMentorNotFound  = errors.New("mentor not found")
	ErrInvalidDocument = errors.New("invalid availability document")
)

// Source fetches a mentor's weekly availability. A nil result with a nil
// error means the mentor has no schedule set.
type Source interface {
	Fetch(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error)

func (f SourceFunc) Fetch(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error) {
	return f(ctx, mentorID)
}
