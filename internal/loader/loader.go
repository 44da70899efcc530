// Package loader holds the current availability snapshot for one viewer and
// discards fetch results that were superseded by a newer request.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/availability"
	"github.com/codr1/mentorhours/internal/source"
)

// ErrSuperseded is returned by Load when a newer Load was issued before this
// one's fetch completed. The newer request owns the snapshot.
var ErrSuperseded = errors.New("availability load superseded by a newer request")

// Snapshot is the state a Loader exposes to renderers.
type Snapshot struct {
	MentorID string
	Seq      uint64
	Data     *availability.WeeklyAvailability
}

type Loader struct {
	src source.Source

	mu      sync.Mutex
	seq     uint64
	current Snapshot
}

func New(src source.Source) *Loader {
	return &Loader{src: src}
}

// Load fetches mentorID's schedule and, if no newer Load has started in the
// meantime, replaces the snapshot with the result. Fetch failures replace the
// snapshot with no data so the caller renders the empty state; the error is
// logged and not returned.
func (l *Loader) Load(ctx context.Context, mentorID string) (Snapshot, error) {
	seq := l.begin()
	logger := log.Ctx(ctx).With().Str("mentor_id", mentorID).Uint64("seq", seq).Logger()

	data, err := l.src.Fetch(ctx, mentorID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch availability")
		data = nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		logger.Debug().Uint64("latest_seq", l.seq).Msg("Discarding superseded availability response")
		return l.current, ErrSuperseded
	}

	l.current = Snapshot{
		MentorID: mentorID,
		Seq:      seq,
		Data:     data,
	}
	return l.current, nil
}

// Snapshot returns the most recently accepted result.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}
