// ABOUTME: JSON response and error helpers for the HTTP API
// ABOUTME: Maps domain errors onto status codes

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harper/salah/internal/prayer"
	"github.com/harper/salah/internal/qibla"
	"github.com/harper/salah/internal/storage"
)

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func (a *API) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) errorResponse(w http.ResponseWriter, status int, text string) {
	a.sendJSON(w, status, errorBody{Code: status, Text: text})
}

// validationErrorResponse sends a 400 with field-specific messages.
func (a *API) validationErrorResponse(w http.ResponseWriter, fieldErrors map[string][]string) {
	a.sendJSON(w, http.StatusBadRequest, struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{FieldErrors: fieldErrors})
}

// domainErrorResponse picks a status for err.
func (a *API) domainErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNoLocation):
		a.errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		a.errorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, qibla.ErrInvalidInput), errors.Is(err, storage.ErrAmbiguousID):
		a.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, prayer.ErrUpstream):
		a.logger.Warn("prayer time service failed", "error", err)
		a.errorResponse(w, http.StatusBadGateway, "prayer time service unavailable")
	default:
		a.logger.Error("request failed", "error", err)
		a.errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
