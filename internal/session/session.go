// Package session carries the active mentor identity through request
// contexts so the availability pipeline never reads it from shared state.
package session

import (
	"context"
	"errors"
	"strings"
)

var ErrNoMentorSession = errors.New("no active mentor session")

// Mentor identifies the mentor a request acts for.
type Mentor struct {
	ID   string
	Name string
}

type mentorContextKey struct{}

func ContextWithMentor(ctx context.Context, mentor *Mentor) context.Context {
	return context.WithValue(ctx, mentorContextKey{}, mentor)
}

// MentorFromContext retrieves the Mentor stored in ctx.
// It returns nil if ctx is nil, if no mentor is stored, or if the stored value has a different type.
func MentorFromContext(ctx context.Context) *Mentor {
	if ctx == nil {
		return nil
	}

	mentor, ok := ctx.Value(mentorContextKey{}).(*Mentor)
	if !ok {
		return nil
	}

	return mentor
}

// RequireMentorID returns the mentor id from ctx, or ErrNoMentorSession when
// the context carries no mentor or the id is blank.
func RequireMentorID(ctx context.Context) (string, error) {
	mentor := MentorFromContext(ctx)
	if mentor == nil {
		return "", ErrNoMentorSession
	}
	id := strings.TrimSpace(mentor.ID)
	if id == "" {
		return "", ErrNoMentorSession
	}
	return id, nil
}
