package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/logger"
)

// Client is one websocket connection. The read pump decodes frames and
// forwards them to the dispatcher; the write pump owns all writes to the
// connection so frames and pings never interleave.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string

	send chan OutboundFrame
	once sync.Once
}

// trySend enqueues a frame without blocking. Returns false when the
// client's buffer is full and the frame was dropped.
func (c *Client) trySend(frame OutboundFrame) bool {
	defer func() {
		// The send channel closes on unregister; a racing broadcast is a drop
		recover()
	}()
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		c.conn.Close()
	})
}

// readPump pulls frames off the connection until it errors or closes.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(context.Background()).Warn("Websocket read failed",
					"player_id", c.playerID, "error", err)
			}
			return
		}

		ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.trySend(errorFrame("", "malformed frame"))
			continue
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Client) handleFrame(ctx context.Context, frame InboundFrame) {
	switch frame.Action {
	case ActionJoin:
		if _, err := c.hub.dispatcher.EnterArea(ctx, frame.AreaID, c.playerID); err != nil {
			c.trySend(errorFrame(frame.RequestID, domain.ErrorKind(err)))
		}

	case ActionLeave:
		if err := c.hub.dispatcher.LeaveArea(ctx, frame.AreaID, c.playerID); err != nil {
			c.trySend(errorFrame(frame.RequestID, domain.ErrorKind(err)))
		}

	case ActionCommand:
		kind := area.CommandKind(frame.Kind)
		payload, err := area.DecodePayload(kind, frame.Payload)
		if err != nil {
			// Malformed payloads never reach area logic
			result := area.CommandResult{Success: false, ErrorKind: domain.ErrorKind(err)}
			c.trySend(commandResultFrame(frame.RequestID, frame.AreaID, result))
			return
		}

		result := c.hub.dispatcher.HandleCommand(ctx, c.playerID, area.Command{
			AreaID:  frame.AreaID,
			Kind:    kind,
			Payload: payload,
		})
		if !c.trySend(commandResultFrame(frame.RequestID, frame.AreaID, result)) {
			logger.FromContext(ctx).Warn("Dropped command result for slow client",
				"player_id", c.playerID, "area_id", frame.AreaID)
		}

	default:
		c.trySend(errorFrame(frame.RequestID, "unknown action"))
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
