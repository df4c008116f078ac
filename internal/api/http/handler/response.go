package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamtube/streamtube-server/internal/model"
)

// Envelope is the uniform response shape. Success mirrors whether the
// status code is below 400.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// writeError maps domain errors onto the envelope. Anything unclassified
// becomes an opaque 500 so internals never leak to the caller.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		respond(w, domainErr.Code, nil, domainErr.Message)
		return
	}
	if errors.Is(err, model.ErrNotFound) {
		respond(w, http.StatusNotFound, nil, "not found")
		return
	}
	respond(w, http.StatusInternalServerError, nil, "internal server error")
}
