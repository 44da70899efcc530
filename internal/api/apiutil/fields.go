package apiutil

import (
	"fmt"
	"net/http"
	"strings"
)

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParseOptionalBool returns fallback when raw is blank.
func ParseOptionalBool(raw string, field string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be true or false", field)
	}
}

func BoolFromQuery(r *http.Request, key string, fallback bool) (bool, error) {
	return ParseOptionalBool(r.URL.Query().Get(key), key, fallback)
}

func PathValue(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.PathValue(key))
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}
