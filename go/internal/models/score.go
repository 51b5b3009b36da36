package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge is the performance tier awarded for a finishing time.
type Badge string

const (
	BadgeGold   Badge = "gold"
	BadgeSilver Badge = "silver"
	BadgeBronze Badge = "bronze"
	BadgeNone   Badge = "none"
)

// ScoreRecord is a team's permanent leaderboard entry. At most one exists
// per team, ever.
type ScoreRecord struct {
	ID              uuid.UUID `json:"id"`
	TeamName        string    `json:"team_name"`
	DisplayName     string    `json:"display_name"`
	DurationSeconds int       `json:"duration_seconds"`
	Badge           Badge     `json:"badge"`
	CreatedAt       time.Time `json:"created_at"`
}
