package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// stubArea is a minimal Area for exercising the read endpoints.
type stubArea struct {
	*area.Occupancy
	id    string
	kind  string
	model any
}

func (a *stubArea) ID() string                 { return a.id }
func (a *stubArea) Type() string               { return a.kind }
func (a *stubArea) Bounds() domain.BoundingBox { return domain.BoundingBox{Width: 10, Height: 10} }
func (a *stubArea) ToModel(context.Context) any {
	return a.model
}
func (a *stubArea) HandleCommand(context.Context, string, area.Command) (any, error) {
	return nil, domain.ErrInvalidCommand
}

func newTestRegistry(t *testing.T, areas ...area.Area) *area.Registry {
	t.Helper()
	registry, err := area.NewRegistry(area.NopBroadcaster{}, nil, areas...)
	require.NoError(t, err)
	return registry
}

func TestHandleListAreas(t *testing.T) {
	grocery := &stubArea{Occupancy: area.NewOccupancy(), id: "grocery-main", kind: domain.AreaTypeGroceryStore}
	trading := &stubArea{Occupancy: area.NewOccupancy(), id: "trading-post", kind: domain.AreaTypeTrading}
	grocery.AddOccupant("alice")
	registry := newTestRegistry(t, grocery, trading)

	req := httptest.NewRequest("GET", "/areas", nil)
	w := httptest.NewRecorder()

	HandleListAreas(registry).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []AreaSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	byID := make(map[string]AreaSummary, len(resp.Data))
	for _, s := range resp.Data {
		byID[s.ID] = s
	}
	assert.Equal(t, 1, byID["grocery-main"].Occupants)
	assert.True(t, byID["grocery-main"].Active)
	assert.False(t, byID["trading-post"].Active)
}

func TestHandleGetAreaModel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		a := &stubArea{
			Occupancy: area.NewOccupancy(),
			id:        "grocery-main",
			kind:      domain.AreaTypeGroceryStore,
			model:     map[string]string{"id": "grocery-main"},
		}
		registry := newTestRegistry(t, a)

		r := chi.NewRouter()
		r.Get("/areas/{areaID}", HandleGetAreaModel(registry))

		req := httptest.NewRequest("GET", "/areas/grocery-main", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"grocery-main"`)
	})

	t.Run("Unknown Area", func(t *testing.T) {
		registry := newTestRegistry(t)

		r := chi.NewRouter()
		r.Get("/areas/{areaID}", HandleGetAreaModel(registry))

		req := httptest.NewRequest("GET", "/areas/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgAreaNotFoundHTTP)
	})
}
