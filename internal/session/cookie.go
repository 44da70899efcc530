package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrSecretMissing  = errors.New("session secret key is not configured")
	ErrInvalidSession = errors.New("invalid mentor session")
	ErrSessionExpired = errors.New("mentor session expired")
)

type cookiePayload struct {
	MentorID  string `json:"mentor_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// SignMentorCookie returns a cookie value binding mentorID until expiresAt.
// The value is base64url(payload) + "." + base64url(hmac-sha256(payload)).
func SignMentorCookie(secretKey, mentorID string, expiresAt time.Time) (string, error) {
	mentorID = strings.TrimSpace(mentorID)
	if mentorID == "" {
		return "", ErrNoMentorSession
	}
	data, err := json.Marshal(cookiePayload{MentorID: mentorID, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(data)
	signature, err := signPayload(secretKey, encoded)
	if err != nil {
		return "", err
	}
	return encoded + "." + signature, nil
}

// VerifyMentorCookie checks the signature and expiry of value and returns the
// mentor id it carries.
func VerifyMentorCookie(secretKey, value string, now time.Time) (string, error) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return "", ErrInvalidSession
	}

	expected, err := signPayload(secretKey, parts[0])
	if err != nil {
		return "", err
	}
	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return "", ErrInvalidSession
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidSession
	}
	var payload cookiePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", ErrInvalidSession
	}
	if payload.ExpiresAt <= now.Unix() {
		return "", ErrSessionExpired
	}

	mentorID := strings.TrimSpace(payload.MentorID)
	if mentorID == "" {
		return "", ErrInvalidSession
	}
	return mentorID, nil
}

func signPayload(secretKey, payload string) (string, error) {
	if secretKey == "" {
		return "", ErrSecretMissing
	}
	mac := hmac.New(sha256.New, []byte(secretKey))
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
