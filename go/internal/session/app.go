package session

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/models"
)

// SessionRepository defines what the app layer needs from the repository
type SessionRepository interface {
	Start(ctx context.Context, sess models.GameSession, reset bool) (*models.GameSession, error)
	Get(ctx context.Context, teamName string) (*models.GameSession, error)
	Delete(ctx context.Context, teamName string) error
	Finish(ctx context.Context, teamName string, at time.Time) (bool, error)
}

// App handles session business logic. Time comes from the injected clock,
// never from the caller.
type App struct {
	repo  SessionRepository
	clock clockwork.Clock
}

// NewApp creates a new session App
func NewApp(repo SessionRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// Start begins a team's countdown. A live session is only overwritten when
// the caller asks for a reset.
func (a *App) Start(ctx context.Context, req StartSessionRequest) (*models.GameSession, error) {
	teamName := models.NormalizeTeamName(req.Team)
	if teamName == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "team is required")
	}
	if req.DurationSeconds <= 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "duration_seconds must be positive")
	}

	now := a.clock.Now().UTC()
	sess, err := a.repo.Start(ctx, models.GameSession{
		TeamName:    teamName,
		DisplayName: req.Team,
		StartedAt:   now,
		EndsAt:      now.Add(time.Duration(req.DurationSeconds) * time.Second),
	}, req.Reset)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team", teamName).
		Int("duration_seconds", req.DurationSeconds).
		Bool("reset", req.Reset).
		Time("ends_at", sess.EndsAt).
		Msg("session started")

	return sess, nil
}

// GetStatus reports the countdown for a team
func (a *App) GetStatus(ctx context.Context, team string) (*Status, error) {
	teamName := models.NormalizeTeamName(team)
	if teamName == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "team is required")
	}

	sess, err := a.repo.Get(ctx, teamName)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	remaining := sess.RemainingSeconds(now)

	return &Status{
		StartedAt:        sess.StartedAt,
		EndsAt:           sess.EndsAt,
		RemainingSeconds: remaining,
		IsOver:           remaining == 0 || sess.FinishedAt != nil,
	}, nil
}

// Reset deletes a team's session. Resetting an absent session is a no-op.
func (a *App) Reset(ctx context.Context, team string) error {
	teamName := models.NormalizeTeamName(team)
	if teamName == "" {
		return apperr.New(apperr.KindInvalidInput, "team is required")
	}

	if err := a.repo.Delete(ctx, teamName); err != nil {
		return err
	}

	log.Info().Str("team", teamName).Msg("session reset")
	return nil
}

// MarkFinished transitions a session from not-finished to finished and
// reports whether this call won the transition.
func (a *App) MarkFinished(ctx context.Context, team string, at time.Time) (bool, error) {
	teamName := models.NormalizeTeamName(team)
	if teamName == "" {
		return false, apperr.New(apperr.KindInvalidInput, "team is required")
	}
	return a.repo.Finish(ctx, teamName, at)
}
