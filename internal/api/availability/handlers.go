// internal/api/availability/handlers.go
package availability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/api/apiutil"
	"github.com/codr1/mentorhours/internal/api/htmx"
	avail "github.com/codr1/mentorhours/internal/availability"
	"github.com/codr1/mentorhours/internal/loader"
	"github.com/codr1/mentorhours/internal/ratelimit"
	"github.com/codr1/mentorhours/internal/session"
	"github.com/codr1/mentorhours/internal/source"
	availabilitytempl "github.com/codr1/mentorhours/internal/templates/components/availability"
	"github.com/codr1/mentorhours/internal/templates/layouts"
)

const (
	availabilityQueryTimeout = 5 * time.Second
	maxDocumentBytes         = 1 << 20
	mentorIDPathKey          = "mentor_id"
	compactQueryKey          = "compact"
	showTitleQueryKey        = "show_title"
	viewerCookieName         = "availability_viewer"
	viewerCookieMaxAge       = 30 * 24 * 60 * 60
)

// DocumentWriter accepts validated availability payloads.
type DocumentWriter interface {
	PutDocument(ctx context.Context, mentorID string, payload []byte) error
}

var (
	schedules schedulesDeps
	depsOnce  sync.Once

	writeLimiter *ratelimit.Limiter
	trustProxy   bool
)

type schedulesDeps struct {
	src      source.Source
	registry *loader.Registry
	writer   DocumentWriter
}

// InitHandlers must be called during server startup before handling requests.
// writer may be nil when the schedule source is read-only.
func InitHandlers(src source.Source, registry *loader.Registry, writer DocumentWriter) {
	if src == nil || registry == nil {
		return
	}
	depsOnce.Do(func() {
		schedules = schedulesDeps{src: src, registry: registry, writer: writer}
	})
}

// InitWriteLimiter throttles PUT /api/v1/availability. Without it writes are
// not limited.
func InitWriteLimiter(limiter *ratelimit.Limiter, trustProxyHeaders bool) {
	writeLimiter = limiter
	trustProxy = trustProxyHeaders
}

// GET /availability
func HandleMyAvailability(w http.ResponseWriter, r *http.Request) {
	mentorID, err := session.RequireMentorID(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Availability requested without a mentor session")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	renderPanel(w, r, mentorID)
}

// GET /mentors/{mentor_id}/availability
func HandleMentorAvailability(w http.ResponseWriter, r *http.Request) {
	mentorID, err := apiutil.PathValue(r, mentorIDPathKey)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderPanel(w, r, mentorID)
}

// GET /api/v1/mentors/{mentor_id}/availability
func HandleMentorAvailabilityJSON(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	deps, ok := loadDeps()
	if !ok {
		logger.Error().Msg("Availability handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	mentorID, err := apiutil.PathValue(r, mentorIDPathKey)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	week, err := deps.src.Fetch(ctx, mentorID)
	if err != nil {
		if errors.Is(err, source.ErrMentorNotFound) {
			http.Error(w, "Mentor not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Str("mentor_id", mentorID).Msg("Failed to fetch availability")
		week = nil
	}

	response := viewResponse{
		MentorID: mentorID,
		View:     avail.SelectView(week, opts),
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, response); err != nil {
		logger.Error().Err(err).Str("mentor_id", mentorID).Msg("Failed to write availability response")
	}
}

// PUT /api/v1/availability
func HandleMyAvailabilityUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	deps, ok := loadDeps()
	if !ok {
		logger.Error().Msg("Availability handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if deps.writer == nil {
		http.Error(w, "Availability is managed upstream", http.StatusMethodNotAllowed)
		return
	}

	mentorID, err := session.RequireMentorID(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientIP := ratelimit.GetClientIP(r, trustProxy)
	if writeLimiter != nil {
		if result := writeLimiter.CheckWrite(mentorID, clientIP); !result.Allowed {
			ratelimit.LogRateLimitExceeded(logger, mentorID, clientIP, result)
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many availability updates, try again later", http.StatusTooManyRequests)
			return
		}
	}

	payload, err := readDocument(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	if err := deps.writer.PutDocument(ctx, mentorID, payload); err != nil {
		switch {
		case errors.Is(err, source.ErrInvalidDocument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, source.ErrMentorNotFound):
			http.Error(w, "Mentor not found", http.StatusNotFound)
		default:
			logger.Error().Err(err).Str("mentor_id", mentorID).Msg("Failed to store availability")
			http.Error(w, "Failed to save availability", http.StatusInternalServerError)
		}
		return
	}
	if writeLimiter != nil {
		writeLimiter.RecordWrite(mentorID, clientIP)
	}

	if apiutil.IsJSONRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	htmx.Trigger(w, htmx.RefreshAvailabilityEvent)
	apiutil.WriteHTMLFeedback(w, http.StatusOK, "Availability saved.")
}

type viewResponse struct {
	MentorID string     `json:"mentorId"`
	View     avail.View `json:"view"`
}

func renderPanel(w http.ResponseWriter, r *http.Request, mentorID string) {
	logger := log.Ctx(r.Context())

	deps, ok := loadDeps()
	if !ok {
		logger.Error().Msg("Availability handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	viewerID := viewerIDFromRequest(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	snap, err := deps.registry.Get(viewerID).Load(ctx, mentorID)
	if err != nil {
		if errors.Is(err, loader.ErrSuperseded) {
			// A newer request from this viewer owns the panel.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.Error().Err(err).Str("mentor_id", mentorID).Msg("Failed to load availability")
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	panel := availabilitytempl.Panel(availabilitytempl.PanelData{
		MentorID:   mentorID,
		View:       avail.SelectView(snap.Data, opts),
		RefreshURL: r.URL.RequestURI(),
	})
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, panel, nil, "Failed to render availability panel", "Failed to render availability")
		return
	}

	page := layouts.Base(avail.DefaultTitle, panel)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render availability page", "Failed to render page")
}

func optionsFromQuery(r *http.Request) (avail.Options, error) {
	compact, err := apiutil.BoolFromQuery(r, compactQueryKey, false)
	if err != nil {
		return avail.Options{}, err
	}
	showTitle, err := apiutil.BoolFromQuery(r, showTitleQueryKey, true)
	if err != nil {
		return avail.Options{}, err
	}
	return avail.Options{ShowTitle: showTitle, Compact: compact}, nil
}

// viewerIDFromRequest returns the viewer's id, issuing a new cookie on first visit.
func viewerIDFromRequest(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(viewerCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     viewerCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   viewerCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func readDocument(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("missing request body")
	}
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(payload) > maxDocumentBytes {
		return nil, errors.New("availability document too large")
	}
	return payload, nil
}

func loadDeps() (schedulesDeps, bool) {
	if schedules.src == nil || schedules.registry == nil {
		return schedulesDeps{}, false
	}
	return schedules, true
}
