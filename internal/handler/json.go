package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const maxBodyBytes = 1 << 20

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "malformed JSON: %v", err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already gone, only the log can tell
		h.logInternalServerError(r, err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, ErrorResponse{Error: msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		h.writeError(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
		return
	}

	h.writeError(w, r, http.StatusBadRequest, err.Error())
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// errorResponse maps domain errors to their status codes. Anything unknown is
// logged and reported as a 500.
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr), errors.As(err, &validationErrors):
		h.badRequest(w, r, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		h.writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		h.writeError(w, r, http.StatusConflict, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handler) requiredSeason(r *http.Request) (string, error) {
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	if season == "" {
		return "", domain.NewValidationError("season", "query parameter is required")
	}
	return season, nil
}

// optionalSeason reads ?season=, "" meaning every season.
func (h *Handler) optionalSeason(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("season"))
}

// optionalActivityID reads ?activityId=, 0 when absent.
func (h *Handler) optionalActivityID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("activityId"))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, domain.NewValidationError("activityId", "must be a positive integer")
	}
	return id, nil
}
