// Package shared centralizes the JSON envelope the console surface speaks:
// {success, message, data}, mirroring the registry backend's own shape so
// the browser layer handles one format.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "dinardap-console/pkg/domain-errors"
)

// Response is the wire envelope for every console endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteData writes a success envelope.
func WriteData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// WriteMessage writes a success envelope with a message and payload.
func WriteMessage(w http.ResponseWriter, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data})
}

// WriteError translates a domain error into the envelope. Raw causes are
// never serialized; only the coded user message crosses the boundary.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(Response{
		Success: false,
		Message: dErrors.MessageOf(err),
		Error:   string(code),
	})
}
