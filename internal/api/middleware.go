// internal/api/middleware.go
package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/api/apiutil"
	"github.com/codr1/mentorhours/internal/session"
)

const (
	MentorIDHeader    = "X-Mentor-ID"
	MentorSessionName = "mentor_session"
)

type requestIDKey struct{}

type Middleware func(http.Handler) http.Handler

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Str("request_id", RequestIDFromContext(r.Context())).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				// Log the full stack trace
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		// Create a logger with the request ID
		logger := log.With().Str("request_id", requestID).Logger()

		// Add both the request ID and logger to context
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set default content type if not set
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", "text/html")
		}
		next.ServeHTTP(w, r)
	})
}

// WithMentorSession attaches the signed-in mentor to the request context.
// The mentor_session cookie must carry a value signed with secretKey. The
// gateway header is read only when trustGatewayHeader is set, and then wins
// over the cookie. Requests without a valid identity pass through unchanged;
// handlers that need a mentor call session.RequireMentorID.
func WithMentorSession(secretKey string, trustGatewayHeader bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var headerID string
			if trustGatewayHeader {
				headerID = r.Header.Get(MentorIDHeader)
			}

			var cookieID string
			if cookie, err := r.Cookie(MentorSessionName); err == nil && cookie.Value != "" {
				id, err := session.VerifyMentorCookie(secretKey, cookie.Value, time.Now())
				if err != nil {
					log.Ctx(r.Context()).Warn().Err(err).Msg("Rejected mentor session cookie")
				} else {
					cookieID = id
				}
			}

			mentorID := apiutil.FirstNonEmpty(headerID, cookieID)
			if mentorID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := session.ContextWithMentor(r.Context(), &session.Mentor{ID: mentorID})
			log.Ctx(ctx).Debug().Str("mentor_id", mentorID).Msg("Mentor session resolved")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
