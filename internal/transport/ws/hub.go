// Package ws is the realtime transport: one websocket per client, join and
// leave bookkeeping, command decode at the boundary and fan-out of area
// models to occupants. Delivery to any one client is best-effort; the
// authoritative state always lives in the areas and can be re-fetched.
package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/metrics"
)

// Dispatcher is the slice of the area registry the transport needs.
type Dispatcher interface {
	HandleCommand(ctx context.Context, playerID string, cmd area.Command) area.CommandResult
	EnterArea(ctx context.Context, areaID, playerID string) (any, error)
	LeaveArea(ctx context.Context, areaID, playerID string) error
	RemoveEverywhere(ctx context.Context, playerID string)
}

// Hub tracks connected clients by player id and implements the dispatcher's
// Broadcaster: an area model goes to every connection of every occupant,
// dropped per client when that client's buffer is full.
type Hub struct {
	mu         sync.RWMutex
	dispatcher Dispatcher
	clients    map[string]map[*Client]struct{}
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Bind must be called before serving connections; the
// hub and the registry reference each other, so they are wired in two steps.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks are the reverse proxy's job in this deployment
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Bind attaches the dispatcher the hub forwards frames to.
func (h *Hub) Bind(d Dispatcher) {
	h.dispatcher = d
}

// Handler upgrades an HTTP request to a websocket connection. The player id
// comes from the playerId query parameter; authentication sits in front of
// this service.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerId")
		if playerID == "" {
			http.Error(w, "playerId query parameter required", http.StatusBadRequest)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:      h,
			conn:     conn,
			playerID: playerID,
			send:     make(chan OutboundFrame, SendBufferSize),
		}
		h.register(client)

		go client.writePump()
		go client.readPump()
	}
}

// Broadcast implements area.Broadcaster: fan the model out to every
// connection of every occupant without ever blocking the dispatcher.
func (h *Hub) Broadcast(areaID string, occupants []string, model any) {
	frame := areaUpdateFrame(areaID, model)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, playerID := range occupants {
		for client := range h.clients[playerID] {
			if !client.trySend(frame) {
				metrics.BroadcastDrops.WithLabelValues(areaID).Inc()
			}
		}
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] == nil {
		h.clients[c.playerID] = make(map[*Client]struct{})
	}
	h.clients[c.playerID][c] = struct{}{}
	metrics.WebsocketClients.Inc()
}

// unregister drops the connection; the player leaves every occupied area
// when their last connection goes away.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	lastConnection := false
	if conns, ok := h.clients[c.playerID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			metrics.WebsocketClients.Dec()
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.clients, c.playerID)
			lastConnection = true
		}
	}
	h.mu.Unlock()

	if lastConnection && h.dispatcher != nil {
		ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		h.dispatcher.RemoveEverywhere(ctx, c.playerID)
	}
}
