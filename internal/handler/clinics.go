package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bluewave-swim/backoffice/backend/internal/aggregate"
	"github.com/bluewave-swim/backoffice/backend/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// loadAggregate serves from the cache when it can and fills it on a miss.
// Cache failures only cost a recomputation. The cross-season view is never
// cached since invalidation works per season.
func (h *Handler) loadAggregate(ctx context.Context, season string, activityID int64) (*aggregate.Result, error) {
	if season == "" {
		return h.computeAggregate(ctx, season, activityID)
	}

	cached, err := h.aggregateCache.Get(ctx, season, activityID)
	if err != nil {
		slog.Warn("aggregate cache read failed", "season", season, "activityID", activityID, "error", err)
	}
	if h.aggregateCache.Enabled() {
		h.metrics.AggregateCache(cached != nil)
	}
	if cached != nil {
		return cached, nil
	}

	res, err := h.computeAggregate(ctx, season, activityID)
	if err != nil {
		return nil, err
	}

	if err := h.aggregateCache.Set(ctx, season, activityID, res); err != nil {
		slog.Warn("aggregate cache write failed", "season", season, "activityID", activityID, "error", err)
	}

	return res, nil
}

func (h *Handler) computeAggregate(ctx context.Context, season string, activityID int64) (*aggregate.Result, error) {
	submissions, err := h.repository.GetSubmissionsBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	return aggregate.Aggregate(aggregate.FilterActivity(submissions, activityID)), nil
}

func (h *Handler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	season := h.optionalSeason(r)
	activityID, err := h.optionalActivityID(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	res, err := h.loadAggregate(r.Context(), season, activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, res)
}

func (h *Handler) ExportAggregate(w http.ResponseWriter, r *http.Request) {
	season := h.optionalSeason(r)
	activityID, err := h.optionalActivityID(r)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	res, err := h.loadAggregate(r.Context(), season, activityID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	buf, err := export.Aggregate(res)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			h.writeError(w, r, http.StatusNotFound, "no submissions to export")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.writeFile(w, r, export.Filename("preferences", exportName(season, activityID)), buf.Bytes())
}

// exportName labels a download by its filters.
func exportName(season string, activityID int64) string {
	name := strings.TrimSpace(season)
	if name == "" {
		name = "all"
	}
	if activityID > 0 {
		name = fmt.Sprintf("%s_%d", name, activityID)
	}
	return name
}

func (h *Handler) writeFile(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logInternalServerError(r, err)
	}
}
