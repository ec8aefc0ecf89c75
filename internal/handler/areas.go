package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/logger"
)

// AreaSummary is one entry in the area listing
type AreaSummary struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Bounds    domain.BoundingBox `json:"bounds"`
	Occupants int                `json:"occupants"`
	Active    bool               `json:"active"`
}

// HandleListAreas returns the fixed set of areas on the town map.
func HandleListAreas(registry *area.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas := registry.List()
		summaries := make([]AreaSummary, 0, len(areas))
		for _, a := range areas {
			summaries = append(summaries, AreaSummary{
				ID:        a.ID(),
				Type:      a.Type(),
				Bounds:    a.Bounds(),
				Occupants: len(a.Occupants()),
				Active:    a.IsActive(),
			})
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: summaries})
	}
}

// HandleGetAreaModel returns the area's current model. Clients use this to
// resync after reconnecting; the websocket push stream is best-effort.
func HandleGetAreaModel(registry *area.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areaID := chi.URLParam(r, "areaID")

		model, err := registry.Model(r.Context(), areaID)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Failed to get area model", "area_id", areaID, "error", err)
			status, message := mapServiceErrorToStatus(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: model})
	}
}
