package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

const dateLayout = "2006-01-02"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, validationErrors map[string]string) {
	writeJSON(w, status, dto.ErrorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            http.StatusText(status),
		Message:          message,
		Path:             r.URL.Path,
		ValidationErrors: validationErrors,
	})
}

// respondError maps err to a status and writes it. Internal errors are
// logged and their message is hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, status, "internal server error", nil)
		return
	}
	writeError(w, r, status, err.Error(), nil)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrMovementNotFound),
		errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidMovementType),
		errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrDuplicateClient),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate decodes the JSON body into dst and runs its validate
// tags. It writes the error response itself and reports whether to go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return false
	}
	if errs := dto.Validate(dst); errs != nil {
		writeError(w, r, http.StatusBadRequest, "validation failed", errs)
		return false
	}
	return true
}

// parseIDParam parses a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrInvalidInput, key, raw)
	}
	return &v, nil
}

// parseDateRange reads the optional startDate and endDate query parameters.
// Both accept RFC3339 or YYYY-MM-DD; a date-only endDate covers that whole day.
func parseDateRange(r *http.Request) (from, to *time.Time, err error) {
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("startDate")); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: startDate: %v", domain.ErrInvalidInput, err)
		}
		from = &t
	}

	if raw := strings.TrimSpace(q.Get("endDate")); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: endDate: %v", domain.ErrInvalidInput, err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}

	return from, to, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or %s, got %q", dateLayout, raw)
	}
	return t, true, nil
}
