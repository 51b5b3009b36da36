package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/gamedb"
	"github.com/cyberescape/backend/go/internal/models"
	"github.com/cyberescape/backend/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	StartSession(ctx context.Context, arg gamedb.StartSessionParams) (gamedb.Session, error)
	RestartSession(ctx context.Context, arg gamedb.RestartSessionParams) (gamedb.Session, error)
	GetSession(ctx context.Context, teamName string) (gamedb.Session, error)
	DeleteSession(ctx context.Context, teamName string) error
	FinishSession(ctx context.Context, arg gamedb.FinishSessionParams) (int64, error)
}

// Repository implements session data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new session repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// Start creates the session row via a single atomic upsert keyed by team
// name. With reset=false a live session wins the race and the upsert returns
// no row, reported as AlreadyRunning.
func (r *Repository) Start(ctx context.Context, sess models.GameSession, reset bool) (*models.GameSession, error) {
	if reset {
		row, err := r.queries.RestartSession(ctx, gamedb.RestartSessionParams{
			TeamName:    sess.TeamName,
			DisplayName: sess.DisplayName,
			StartedAt:   sess.StartedAt,
			EndsAt:      sess.EndsAt,
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to restart session", err)
		}
		return dbSessionToModel(row), nil
	}

	row, err := r.queries.StartSession(ctx, gamedb.StartSessionParams{
		TeamName:    sess.TeamName,
		DisplayName: sess.DisplayName,
		StartedAt:   sess.StartedAt,
		EndsAt:      sess.EndsAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindAlreadyRunning, "session already running")
		}
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to start session", err)
	}
	return dbSessionToModel(row), nil
}

// Get retrieves a session by normalized team name
func (r *Repository) Get(ctx context.Context, teamName string) (*models.GameSession, error) {
	row, err := r.queries.GetSession(ctx, teamName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "no session for team")
		}
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to get session", err)
	}
	return dbSessionToModel(row), nil
}

// Delete removes the session row. Absence of a row is not an error.
func (r *Repository) Delete(ctx context.Context, teamName string) error {
	if err := r.queries.DeleteSession(ctx, teamName); err != nil {
		return apperr.Wrap(apperr.KindStorageUnavailable, "failed to delete session", err)
	}
	return nil
}

// Finish transitions a session to finished only if it is not finished yet.
// Returns whether the transition was applied.
func (r *Repository) Finish(ctx context.Context, teamName string, at time.Time) (bool, error) {
	rows, err := r.queries.FinishSession(ctx, gamedb.FinishSessionParams{
		TeamName:   teamName,
		FinishedAt: at,
	})
	if err != nil {
		return false, apperr.Wrap(apperr.KindStorageUnavailable, "failed to finish session", err)
	}
	return rows > 0, nil
}

func dbSessionToModel(row gamedb.Session) *models.GameSession {
	return &models.GameSession{
		TeamName:    row.TeamName,
		DisplayName: row.DisplayName,
		StartedAt:   row.StartedAt,
		EndsAt:      row.EndsAt,
		FinishedAt:  sqlutil.FromSqlTime(row.FinishedAt),
	}
}
