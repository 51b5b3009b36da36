package session

import "time"

// StartSessionRequest represents the data needed to start a team's countdown
type StartSessionRequest struct {
	Team            string `json:"team"`
	DurationSeconds int    `json:"duration_seconds"`
	Reset           bool   `json:"reset,omitempty"`
}

// Status is the countdown view returned to a team while it plays
type Status struct {
	StartedAt        time.Time `json:"started_at"`
	EndsAt           time.Time `json:"ends_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
	IsOver           bool      `json:"is_over"`
}
