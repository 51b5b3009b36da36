package leaderboard

import (
	"context"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/gamedb"
	"github.com/cyberescape/backend/go/internal/models"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	TopScores(ctx context.Context, limit int32) ([]gamedb.Score, error)
	ScoreExists(ctx context.Context, teamName string) (bool, error)
}

// Repository implements leaderboard data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new leaderboard repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// TopScores returns committed score rows ordered by duration then commit
// time. Every call re-reads current storage state.
func (r *Repository) TopScores(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	rows, err := r.queries.TopScores(ctx, int32(limit))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to list top scores", err)
	}

	records := make([]models.ScoreRecord, len(rows))
	for i, row := range rows {
		records[i] = models.ScoreRecord{
			ID:              row.ID,
			TeamName:        row.TeamName,
			DisplayName:     row.DisplayName,
			DurationSeconds: int(row.DurationSeconds),
			Badge:           models.Badge(row.Badge),
			CreatedAt:       row.CreatedAt,
		}
	}
	return records, nil
}

// ScoreExists reports whether a team already committed a score
func (r *Repository) ScoreExists(ctx context.Context, teamName string) (bool, error) {
	exists, err := r.queries.ScoreExists(ctx, teamName)
	if err != nil {
		return false, apperr.Wrap(apperr.KindStorageUnavailable, "failed to check team score", err)
	}
	return exists, nil
}
