package handler

import (
	"net/http"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

type activityLocationRequest struct {
	Location string   `json:"location" validate:"required"`
	Slots    []string `json:"slots" validate:"dive,required"`
}

func toLocations(req []activityLocationRequest) []domain.ActivityLocation {
	locations := make([]domain.ActivityLocation, 0, len(req))
	for _, loc := range req {
		slots := make([]string, 0, len(loc.Slots))
		for _, slot := range loc.Slots {
			slots = append(slots, strings.TrimSpace(slot))
		}
		locations = append(locations, domain.ActivityLocation{
			Location: strings.TrimSpace(loc.Location),
			Slots:    slots,
		})
	}
	return locations
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Season              string                    `json:"season" validate:"required"`
		Name                string                    `json:"name" validate:"required"`
		Kind                string                    `json:"kind" validate:"required,oneof=clinic camp"`
		DefaultLaneCapacity int32                     `json:"defaultLaneCapacity" validate:"gte=0"`
		Locations           []activityLocationRequest `json:"locations" validate:"dive"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	activity := &domain.Activity{
		Season:              strings.TrimSpace(req.Season),
		Name:                strings.TrimSpace(req.Name),
		Kind:                domain.ActivityKind(req.Kind),
		DefaultLaneCapacity: req.DefaultLaneCapacity,
		Locations:           toLocations(req.Locations),
	}
	if activity.DefaultLaneCapacity == 0 {
		activity.DefaultLaneCapacity = h.config.Clinic.DefaultLaneCapacity
	}

	if err := h.repository.CreateActivity(r.Context(), activity); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, activity)
}

func (h *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	activities, err := h.repository.ListActivities(r.Context(), season)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, activities)
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity := r.Context().Value(ActivityCtx).(*domain.Activity)
	h.writeJSON(w, r, http.StatusOK, activity)
}

func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	activity := r.Context().Value(ActivityCtx).(*domain.Activity)

	var req struct {
		Name                *string                   `json:"name" validate:"omitempty,min=1"`
		Kind                *string                   `json:"kind" validate:"omitempty,oneof=clinic camp"`
		DefaultLaneCapacity *int32                    `json:"defaultLaneCapacity" validate:"omitempty,gt=0"`
		Locations           []activityLocationRequest `json:"locations" validate:"omitempty,dive"`
		Version             int32                     `json:"version" validate:"required,gt=0"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		activity.Name = strings.TrimSpace(*req.Name)
	}
	if req.Kind != nil {
		activity.Kind = domain.ActivityKind(*req.Kind)
	}
	if req.DefaultLaneCapacity != nil {
		activity.DefaultLaneCapacity = *req.DefaultLaneCapacity
	}
	if req.Locations != nil {
		activity.Locations = toLocations(req.Locations)
	}
	activity.Version = req.Version

	if err := h.repository.UpdateActivity(r.Context(), activity); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, activity)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	activity := r.Context().Value(ActivityCtx).(*domain.Activity)

	if err := h.repository.DeleteActivity(r.Context(), activity.ID); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.successResponse(w, r, "activity deleted")
}
