package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]interface{}

// RespondWithJSON writes data with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondOK wraps payload in the success envelope.
func RespondOK(w http.ResponseWriter, statusCode int, payload M) {
	if payload == nil {
		payload = M{}
	}
	payload["success"] = true
	RespondWithJSON(w, statusCode, payload)
}

// RespondWithError writes the failure envelope.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"success": false, "error": msg})
}
