package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrDrawerNotFound),
		errors.Is(err, domain.ErrShiftNotFound),
		errors.Is(err, domain.ErrCurrencyNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrShiftAlreadyActive),
		errors.Is(err, domain.ErrTargetShiftActive),
		errors.Is(err, domain.ErrShiftNotActive),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEntryKind),
		errors.Is(err, domain.ErrMissingReason),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrNotesTooLong),
		errors.Is(err, domain.ErrDrawerInactive),
		errors.Is(err, domain.ErrCurrencyInactive):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// actorFromRequest returns the authenticated employee or writes a 401.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (*domain.Employee, bool) {
	employee, ok := domain.EmployeeFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "")
		return nil, false
	}
	return employee, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
