package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/aggregate"
	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/recommend"
)

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
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
	if activityID == 0 {
		h.errorResponse(w, r, domain.NewValidationError("activityId", "query parameter is required"))
		return
	}

	activity, err := h.repository.GetActivityByID(r.Context(), activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	if activity.Season != season {
		h.errorResponse(w, r, fmt.Errorf("activity %d in season %s: %w", activityID, season, domain.ErrNotFound))
		return
	}

	submissions, err := h.repository.GetSubmissionsBySeason(r.Context(), season)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	placements, err := h.repository.ListPlacements(r.Context(), season, activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	start := time.Now()
	engine := recommend.New(&recommend.Parameters{
		DefaultLaneCapacity:   activity.DefaultLaneCapacity,
		MaxSlotsPerSubmission: h.config.Clinic.MaxRecommendations,
	}, activity, placements)
	recommendations := engine.Recommend(aggregate.FilterActivity(submissions, activityID))
	h.metrics.ObserveRecommendation(len(recommendations), time.Since(start))

	h.writeJSON(w, r, http.StatusOK, recommendations)
}
