package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the structured error body every failure maps to.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message, details string) {
	if code >= 500 {
		slog.Error("request failed",
			slog.Int("status", code),
			slog.String("error", message),
			slog.String("details", details))
	}
	respondWithJSON(w, code, errorResponse{Error: message, Details: details})
}
