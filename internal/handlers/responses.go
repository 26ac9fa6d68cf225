package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every non-2xx response. Kind is a
// stable machine-readable label so clients can branch without parsing the
// human message.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Kind: errorKind(status)})
}

func errorKind(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid-argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission-denied"
	case http.StatusNotFound:
		return "not-found"
	case http.StatusConflict:
		return "failed-precondition"
	case http.StatusTooManyRequests:
		return "resource-exhausted"
	default:
		return "internal"
	}
}
