package gateway

import (
	"encoding/json"
	"time"
)

// ScoreboardEvent is what spectator clients receive over the WebSocket.
type ScoreboardEvent struct {
	Type      string          `json:"type"`
	Team      string          `json:"team"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
