// Package httputil centralizes JSON response writing so every handler emits
// the same envelope and the same error translation.
package httputil

import (
	"encoding/json"
	"net/http"

	derrors "guestpass/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard error envelope:
// {"error": code, "error_description": message}. Internal errors omit the
// description so infrastructure details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != derrors.CodeInternal {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, derrors.ToHTTPStatus(code), body)
}
