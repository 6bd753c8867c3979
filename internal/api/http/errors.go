package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
)

type apiError struct {
	Status               int    `json:"-"`
	Kind                 string `json:"kind"`
	Message              string `json:"message"`
	CarID                int64  `json:"car_id,omitempty"`
	BookingID            int64  `json:"booking_id,omitempty"`
	MaintenanceID        int64  `json:"maintenance_id,omitempty"`
	ConflictingBookingID int64  `json:"conflicting_booking_id,omitempty"`
}

type errorBody struct {
	Error *apiError `json:"error"`
}

func newAPIError(status int, kind, message string) *apiError {
	return &apiError{Status: status, Kind: kind, Message: message}
}

// statusForKind maps a domain error kind to an HTTP status code.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidRange, domain.KindPolicyViolation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindMaintenanceConflict, domain.KindBookingConflict, domain.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fromError converts a service error into the wire error. Infrastructure
// details stay in the log.
func fromError(err error) *apiError {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Infrastructure(err, "unexpected error")
	}
	if de.Kind == domain.KindInfrastructure {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		return newAPIError(status, string(de.Kind), "internal error")
	}
	return &apiError{
		Status:               statusForKind(de.Kind),
		Kind:                 string(de.Kind),
		Message:              de.Message,
		CarID:                de.CarID,
		BookingID:            de.BookingID,
		MaintenanceID:        de.MaintenanceID,
		ConflictingBookingID: de.ConflictingBookingID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeAPIError(w http.ResponseWriter, r *http.Request, e *apiError) {
	writeJSON(w, e.Status, errorBody{Error: e})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := fromError(err)
	if e.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeAPIError(w, r, e)
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) *apiError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body: "+err.Error())
	}
	return nil
}
