package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/mentorhours/internal/session"
)

func mentorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mentorID, err := session.RequireMentorID(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(mentorID))
	})
}

const testSessionSecret = "middleware-test-secret"

func signedMentorCookie(t *testing.T, secret, mentorID string, expiresAt time.Time) string {
	t.Helper()
	value, err := session.SignMentorCookie(secret, mentorID, expiresAt)
	if err != nil {
		t.Fatalf("sign cookie: %v", err)
	}
	return value
}

func TestWithMentorSession(t *testing.T) {
	valid := signedMentorCookie(t, testSessionSecret, "mentor-2", time.Now().Add(time.Hour))
	expired := signedMentorCookie(t, testSessionSecret, "mentor-2", time.Now().Add(-time.Minute))
	otherKey := signedMentorCookie(t, "some-other-secret", "mentor-2", time.Now().Add(time.Hour))

	tests := []struct {
		name         string
		trustGateway bool
		header       string
		cookie       string
		wantStatus   int
		wantBody     string
	}{
		{name: "trusted header", trustGateway: true, header: "mentor-1", wantStatus: http.StatusOK, wantBody: "mentor-1"},
		{name: "signed cookie", cookie: valid, wantStatus: http.StatusOK, wantBody: "mentor-2"},
		{name: "trusted header wins", trustGateway: true, header: "mentor-1", cookie: valid, wantStatus: http.StatusOK, wantBody: "mentor-1"},
		{name: "blank header falls back", trustGateway: true, header: "  ", cookie: valid, wantStatus: http.StatusOK, wantBody: "mentor-2"},
		{name: "untrusted header ignored", header: "victim-mentor", wantStatus: http.StatusUnauthorized},
		{name: "untrusted header with cookie", header: "victim-mentor", cookie: valid, wantStatus: http.StatusOK, wantBody: "mentor-2"},
		{name: "raw cookie value", cookie: "victim-mentor", wantStatus: http.StatusUnauthorized},
		{name: "cookie signed with other key", cookie: otherKey, wantStatus: http.StatusUnauthorized},
		{name: "expired cookie", cookie: expired, wantStatus: http.StatusUnauthorized},
		{name: "none", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/availability", nil)
			if tc.header != "" {
				req.Header.Set(MentorIDHeader, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: MentorSessionName, Value: tc.cookie})
			}
			recorder := httptest.NewRecorder()

			WithMentorSession(testSessionSecret, tc.trustGateway)(mentorEcho()).ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, recorder.Code)
			}
			if recorder.Body.String() != tc.wantBody {
				t.Fatalf("expected body %q, got %q", tc.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestWithMentorSession_NoSecretRejectsCookies(t *testing.T) {
	cookie := signedMentorCookie(t, testSessionSecret, "mentor-2", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	req.AddCookie(&http.Cookie{Name: MentorSessionName, Value: cookie})
	recorder := httptest.NewRecorder()

	WithMentorSession("", false)(mentorEcho()).ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestChainMiddleware_RequestIDAndRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequestIDFromContext(r.Context()) == "" {
			t.Errorf("expected request id in context")
		}
		panic("boom")
	})

	handler := ChainMiddleware(panicking, WithRecovery, WithLogging, WithRequestID)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}
