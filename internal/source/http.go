package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/codr1/mentorhours/internal/availability"
)

const (
	maxPayloadBytes     = 1 << 20
	defaultFetchTimeout = 5 * time.Second
)

// HTTPSource fetches schedules from an upstream profile service at
// {baseURL}/mentors/{id}/availability. Concurrent fetches for the same mentor
// share one upstream request.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	group   singleflight.Group
}

func NewHTTPSource(baseURL string, timeout time.Duration, client *http.Client) (*HTTPSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("source base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid source base url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  client,
		timeout: timeout,
	}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error) {
	mentorID = strings.TrimSpace(mentorID)
	if mentorID == "" {
		return nil, ErrMentorNotFound
	}

	result, err, shared := s.group.Do(mentorID, func() (interface{}, error) {
		// The shared fetch must not die with whichever caller started it.
		return s.fetch(context.WithoutCancel(ctx), mentorID)
	})
	if shared {
		log.Ctx(ctx).Debug().Str("mentor_id", mentorID).Msg("Shared upstream availability fetch")
	}
	if err != nil {
		return nil, err
	}
	week, _ := result.(*availability.WeeklyAvailability)
	return week, nil
}

func (s *HTTPSource) fetch(ctx context.Context, mentorID string) (*availability.WeeklyAvailability, error) {
	timeout := s.timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := s.baseURL + "/mentors/" + url.PathEscape(mentorID) + "/availability"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build availability request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch availability: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read availability response: %w", err)
	}

	return availability.DecodePayload(mentorID, availability.SchemaV1, body)
}
