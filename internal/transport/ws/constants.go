package ws

import "time"

// Connection tuning
const (
	// WriteWait is the max time allowed to write a frame to the peer
	WriteWait = 10 * time.Second

	// PongWait is the max time to wait for a pong before dropping the peer
	PongWait = 60 * time.Second

	// PingPeriod is how often pings are sent; must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize bounds inbound frames; commands are small
	MaxMessageSize = 4096

	// SendBufferSize is the per-client outbound frame buffer. A client that
	// falls this far behind starts losing broadcast frames and resyncs on
	// its next area entry.
	SendBufferSize = 32
)

// Outbound frame types
const (
	FrameTypeAreaUpdate    = "areaUpdate"
	FrameTypeCommandResult = "commandResult"
	FrameTypeError         = "error"
)

// Inbound actions
const (
	ActionJoin    = "join"
	ActionLeave   = "leave"
	ActionCommand = "command"
)
