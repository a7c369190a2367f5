package handler

import (
	"errors"
	"net/http"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/export"
	"github.com/bluewave-swim/backoffice/backend/internal/placement"
)

type upsertPlacementRequest struct {
	ActivityID int64                  `json:"activityID" validate:"required,gt=0"`
	Season     string                 `json:"season" validate:"required"`
	Location   string                 `json:"location" validate:"required"`
	SlotLabel  string                 `json:"slotLabel" validate:"required"`
	Lanes      []domain.Lane          `json:"lanes"`
	Waitlist   []domain.WaitlistEntry `json:"waitlist"`
	Version    int32                  `json:"version" validate:"gte=0"`
}

func (h *Handler) GetPlacements(w http.ResponseWriter, r *http.Request) {
	season := h.optionalSeason(r)
	activityID, err := h.optionalActivityID(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	placements, err := h.repository.ListPlacements(r.Context(), season, activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, placements)
}

func (h *Handler) GetPlacement(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(PlacementCtx).(*domain.Placement)
	h.writeJSON(w, r, http.StatusOK, p)
}

// UpsertPlacement creates the placement when version is 0 and otherwise
// overwrites it only if nobody changed it since the caller read it.
func (h *Handler) UpsertPlacement(w http.ResponseWriter, r *http.Request) {
	var req upsertPlacementRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.metrics.PlacementWrite("invalid")
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.metrics.PlacementWrite("invalid")
		h.badRequest(w, r, err)
		return
	}

	change, err := h.mutator.Upsert(r.Context(), &placement.UpsertRequest{
		ActivityID: req.ActivityID,
		Season:     req.Season,
		Location:   req.Location,
		SlotLabel:  req.SlotLabel,
		Lanes:      req.Lanes,
		Waitlist:   req.Waitlist,
		Version:    req.Version,
	})
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.metrics.PlacementWrite("invalid")
		case errors.Is(err, domain.ErrConflict):
			h.metrics.PlacementWrite("conflict")
		default:
			h.metrics.PlacementWrite("error")
		}
		h.errorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if change.Previous == nil {
		status = http.StatusCreated
		h.metrics.PlacementWrite("created")
	} else {
		h.metrics.PlacementWrite("updated")
	}

	h.notifyPlacementChange(r.Context(), change)

	h.writeJSON(w, r, status, change.Current)
}

func (h *Handler) DeletePlacement(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(PlacementCtx).(*domain.Placement)

	if err := h.repository.DeletePlacement(r.Context(), p.ID); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.metrics.PlacementWrite("deleted")
	h.successResponse(w, r, "placement deleted")
}

func (h *Handler) ExportPlacements(w http.ResponseWriter, r *http.Request) {
	season := h.optionalSeason(r)
	activityID, err := h.optionalActivityID(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	placements, err := h.repository.ListPlacements(r.Context(), season, activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	buf, err := export.Roster(placements)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			h.writeError(w, r, http.StatusNotFound, "no placements to export")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.writeFile(w, r, export.Filename("roster", exportName(season, activityID)), buf.Bytes())
}
