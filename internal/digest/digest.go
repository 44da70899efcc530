// Package digest sends mentors a weekly e-mail showing the availability
// mentees currently see for them.
package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/mentorhours/internal/availability"
	"github.com/codr1/mentorhours/internal/email"
	"github.com/codr1/mentorhours/internal/source"
	availabilitytempl "github.com/codr1/mentorhours/internal/templates/components/availability"
)

const (
	JobName            = "weekly_availability_digest"
	maxConcurrentSends = 4
	sendTimeout        = 30 * time.Second
)

// MentorLister lists the mentors that can receive mail.
type MentorLister interface {
	ListMentorsWithEmail(ctx context.Context) ([]source.MentorProfile, error)
}

type Options struct {
	Sender  string
	Subject string
	// BaseURL, when set, adds a link to the mentor's availability page.
	BaseURL string
}

// Result counts what a run did.
type Result struct {
	Sent    int
	Skipped int
	Failed  int
}

type Job struct {
	mentors MentorLister
	src     source.Source
	mailer  email.EmailSender
	opts    Options
}

func NewJob(mentors MentorLister, src source.Source, mailer email.EmailSender, opts Options) (*Job, error) {
	if mentors == nil || src == nil || mailer == nil {
		return nil, fmt.Errorf("digest job requires mentors, source and mailer")
	}
	return &Job{mentors: mentors, src: src, mailer: mailer, opts: opts}, nil
}

// Run mails every mentor whose schedule is not empty. Failures for one
// mentor do not stop the others; they are logged and returned joined.
func (j *Job) Run(ctx context.Context) (Result, error) {
	logger := log.Ctx(ctx).With().Str("component", "availability_digest").Logger()

	mentors, err := j.mentors.ListMentorsWithEmail(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list digest recipients: %w", err)
	}

	var (
		sent, skipped, failed atomic.Int32
		errs                  = make([]error, len(mentors))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for i, mentor := range mentors {
		g.Go(func() error {
			ok, err := j.sendOne(gctx, mentor)
			switch {
			case err != nil:
				failed.Add(1)
				errs[i] = fmt.Errorf("mentor %s: %w", mentor.ID, err)
				logger.Error().Err(err).Str("mentor_id", mentor.ID).Msg("Failed to send availability digest")
			case ok:
				sent.Add(1)
			default:
				skipped.Add(1)
			}
			// Returning err here would cancel gctx for the remaining mentors.
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Sent: int(sent.Load()), Skipped: int(skipped.Load()), Failed: int(failed.Load())}
	logger.Info().
		Int("sent", result.Sent).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Availability digest run finished")
	return result, errors.Join(errs...)
}

// sendOne reports false when the mentor has nothing to show.
func (j *Job) sendOne(ctx context.Context, mentor source.MentorProfile) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	week, err := j.src.Fetch(ctx, mentor.ID)
	if err != nil {
		return false, fmt.Errorf("fetch availability: %w", err)
	}

	full := availability.SelectView(week, availability.Options{})
	if full.State == availability.ViewEmpty {
		log.Ctx(ctx).Debug().Str("mentor_id", mentor.ID).Msg("Skipping digest for empty schedule")
		return false, nil
	}
	compact := availability.SelectView(week, availability.Options{Compact: true})

	msg := email.BuildDigestEmail(email.DigestDetails{
		MentorName: mentor.Name,
		Subject:    j.opts.Subject,
		Summary:    compact.SummaryText,
		Schedule:   availabilitytempl.PlainText(full),
		ManageURL:  manageURL(j.opts.BaseURL),
	})
	if err := email.Deliver(ctx, j.mailer, mentor.Email, msg, j.opts.Sender, sendTimeout); err != nil {
		return false, err
	}
	return true, nil
}

func manageURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ""
	}
	return baseURL + "/availability"
}
