package respond

import (
	"encoding/json"
	"net/http"
)

// Stable error codes carried alongside the human-readable message.
const (
	CodeValidation      = "validation_error"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeInternal        = "internal_error"
)

type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, r, status, errorBody{Error: message, Code: code})
}

// ValidationError reports per-field problems under details.
func ValidationError(w http.ResponseWriter, r *http.Request, message string, details map[string]string) {
	JSON(w, r, http.StatusBadRequest, errorBody{Error: message, Code: CodeValidation, Details: details})
}
