package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types drained from the outbox table.
const (
	EventScoreCommitted = "score.committed"
)

// Event represents an outbox event for the application layer
type Event struct {
	ID        uuid.UUID       `json:"id"`
	TeamName  string          `json:"team_name"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// ScoreCommittedPayload is the payload of a score.committed event.
type ScoreCommittedPayload struct {
	Team            string `json:"team"`
	DisplayName     string `json:"display_name"`
	DurationSeconds int    `json:"duration_seconds"`
	Badge           string `json:"badge"`
}
