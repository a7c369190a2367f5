package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/aggregate"
	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

type preferenceRequest struct {
	Location   string   `json:"location" validate:"required"`
	Selections []string `json:"selections" validate:"dive,required"`
}

type submissionRequest struct {
	Season      string              `json:"season" validate:"required"`
	ActivityID  int64               `json:"activityID" validate:"gte=0"`
	SwimmerID   *string             `json:"swimmerID"`
	SwimmerName string              `json:"swimmerName" validate:"required"`
	Level       string              `json:"level"`
	ParentEmail string              `json:"parentEmail" validate:"omitempty,email"`
	ParentPhone string              `json:"parentPhone"`
	Preferences []preferenceRequest `json:"preferences" validate:"dive"`
}

func (req *submissionRequest) toSubmission() *domain.Submission {
	s := &domain.Submission{
		Season:      strings.TrimSpace(req.Season),
		ActivityID:  req.ActivityID,
		SwimmerID:   req.SwimmerID,
		SwimmerName: strings.TrimSpace(req.SwimmerName),
		Level:       domain.Level(strings.ToLower(strings.TrimSpace(req.Level))),
		ParentEmail: normalizeEmail(req.ParentEmail),
		ParentPhone: strings.TrimSpace(req.ParentPhone),
		Preferences: make([]domain.Preference, 0, len(req.Preferences)),
	}

	for _, pref := range req.Preferences {
		selections := make([]string, 0, len(pref.Selections))
		for _, label := range pref.Selections {
			selections = append(selections, strings.TrimSpace(label))
		}
		s.Preferences = append(s.Preferences, domain.Preference{
			Location:   strings.TrimSpace(pref.Location),
			Selections: selections,
		})
	}

	return s
}

// UpsertSubmission stores the preference form of one swimmer. Parents can only
// submit under their own e-mail; admins may enter forms on a parent's behalf.
func (h *Handler) UpsertSubmission(w http.ResponseWriter, r *http.Request) {
	accountID := r.Context().Value(AccountIDCtxKey).(int64)
	email := r.Context().Value(EmailCtxKey).(string)

	var req submissionRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s := req.toSubmission()
	switch {
	case s.ParentEmail == "":
		s.ParentEmail = normalizeEmail(email)
	case s.ParentEmail != normalizeEmail(email) && !h.config.IsAdmin(email):
		h.errorResponse(w, r, domain.ErrForbidden)
		return
	}
	if s.ParentEmail == normalizeEmail(email) {
		s.AccountID = &accountID
	}
	s.ID = s.Key().SubmissionID()

	if err := h.repository.UpsertSubmission(r.Context(), s); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	if err := h.aggregateCache.Invalidate(r.Context(), s.Season); err != nil {
		slog.Warn("failed to invalidate aggregate cache", "season", s.Season, "error", err)
	}

	h.writeJSON(w, r, http.StatusOK, s)
}

func (h *Handler) GetMySubmissions(w http.ResponseWriter, r *http.Request) {
	accountID := r.Context().Value(AccountIDCtxKey).(int64)
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	submissions, err := h.repository.GetSubmissionsByAccount(r.Context(), accountID, season)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, submissions)
}

func (h *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	season, err := h.requiredSeason(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	activityID, err := h.optionalActivityID(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	submissions, err := h.repository.GetSubmissionsBySeason(r.Context(), season)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, aggregate.FilterActivity(submissions, activityID))
}
