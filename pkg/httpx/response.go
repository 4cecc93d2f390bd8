package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteJSON writes v as a JSON response with no-store caching headers. The
// body is encoded before any header is sent, so an unencodable value becomes
// a 500 server_error instead of a truncated response.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body = []byte(`{"error":"server_error"}`)
	}

	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

// NoCache marks a response as carrying credentials.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ParseSpaceDelimitedFields splits an OAuth2 scope parameter. Blank input
// yields nil.
func ParseSpaceDelimitedFields(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
