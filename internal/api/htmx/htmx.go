package htmx

import (
	"net/http"
	"strings"
)

const RefreshAvailabilityEvent = "availability:refresh"

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger asks htmx to dispatch event on the client once the response lands.
func Trigger(w http.ResponseWriter, event string) {
	w.Header().Add("HX-Trigger", event)
}
