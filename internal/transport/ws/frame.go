package ws

import (
	"encoding/json"

	"github.com/osse101/TownCommerce_Go/internal/area"
)

// InboundFrame is one client message. Action selects the shape: join and
// leave carry only areaId; command adds kind, payload and an optional
// requestId the client uses to correlate the result.
type InboundFrame struct {
	Action    string          `json:"action"`
	AreaID    string          `json:"areaId"`
	RequestID string          `json:"requestId,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// OutboundFrame is one server message.
type OutboundFrame struct {
	Type      string              `json:"type"`
	AreaID    string              `json:"areaId,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
	Model     any                 `json:"model,omitempty"`
	Result    *area.CommandResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func areaUpdateFrame(areaID string, model any) OutboundFrame {
	return OutboundFrame{Type: FrameTypeAreaUpdate, AreaID: areaID, Model: model}
}

func commandResultFrame(requestID, areaID string, result area.CommandResult) OutboundFrame {
	return OutboundFrame{Type: FrameTypeCommandResult, AreaID: areaID, RequestID: requestID, Result: &result}
}

func errorFrame(requestID, message string) OutboundFrame {
	return OutboundFrame{Type: FrameTypeError, RequestID: requestID, Error: message}
}
