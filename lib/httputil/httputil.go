package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes the value as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn("failed to encode response body", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError writes a `{"error": ...}` body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}

// DecodeJSON reads a JSON request body into v, rejecting unknown
// fields so client typos surface as 400s instead of silent zero values.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
