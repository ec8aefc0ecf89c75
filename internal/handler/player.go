package handler

import (
	"fmt"
	"net/http"

	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/playerdb"
)

// BalanceResponse is the body of a balance read
type BalanceResponse struct {
	PlayerID string `json:"playerId"`
	Balance  int    `json:"balance"`
}

// InventoryResponse is the body of an inventory read
type InventoryResponse struct {
	PlayerID  string           `json:"playerId"`
	Inventory domain.Inventory `json:"inventory"`
}

// HandleGetBalance returns a player's currency balance. Unknown players are
// provisioned on first touch, so this never 404s for a well-formed request.
func HandleGetBalance(players playerdb.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerId")
		if playerID == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "playerId"))
			return
		}

		balance, err := players.GetBalance(r.Context(), playerID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get balance", "player_id", playerID, "error", err)
			status, message := mapServiceErrorToStatus(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, BalanceResponse{PlayerID: playerID, Balance: balance})
	}
}

// HandleGetInventory returns a player's persistent inventory.
func HandleGetInventory(players playerdb.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerId")
		if playerID == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "playerId"))
			return
		}

		inventory, err := players.GetInventory(r.Context(), playerID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get inventory", "player_id", playerID, "error", err)
			status, message := mapServiceErrorToStatus(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, InventoryResponse{PlayerID: playerID, Inventory: inventory})
	}
}
