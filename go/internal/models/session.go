package models

import (
	"strings"
	"time"
)

// SessionState is the derived lifecycle state of a game session.
type SessionState string

const (
	SessionRunning  SessionState = "running"
	SessionExpired  SessionState = "expired"
	SessionFinished SessionState = "finished"
)

// GameSession is the per-team countdown timer. TeamName is the normalized
// storage key; DisplayName keeps the casing the team registered with.
type GameSession struct {
	TeamName    string     `json:"team_name"`
	DisplayName string     `json:"display_name"`
	StartedAt   time.Time  `json:"started_at"`
	EndsAt      time.Time  `json:"ends_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// State derives the lifecycle state at the given instant. Finished is
// terminal; Expired is not, a reset can revive it.
func (s *GameSession) State(now time.Time) SessionState {
	switch {
	case s.FinishedAt != nil:
		return SessionFinished
	case !now.Before(s.EndsAt):
		return SessionExpired
	default:
		return SessionRunning
	}
}

// RemainingSeconds is the whole seconds left on the countdown, floored at zero.
func (s *GameSession) RemainingSeconds(now time.Time) int {
	remaining := int(s.EndsAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NormalizeTeamName maps a submitted team name to its storage key. Lookups
// and uniqueness are case-insensitive across both sessions and scores.
func NormalizeTeamName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
