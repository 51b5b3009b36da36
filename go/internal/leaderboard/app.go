package leaderboard

import (
	"context"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/models"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

// LeaderboardRepository defines what the app layer needs from the repository
type LeaderboardRepository interface {
	TopScores(ctx context.Context, limit int) ([]models.ScoreRecord, error)
	ScoreExists(ctx context.Context, teamName string) (bool, error)
}

// App serves the read-only ranked view over committed scores
type App struct {
	repo LeaderboardRepository
}

// NewApp creates a new leaderboard App
func NewApp(repo LeaderboardRepository) *App {
	return &App{repo: repo}
}

// TopN returns up to n entries ranked by duration ascending, commit time
// ascending. n defaults to 10 and is capped at 100.
func (a *App) TopN(ctx context.Context, n int) ([]models.ScoreRecord, error) {
	if n <= 0 {
		n = defaultTopN
	}
	if n > maxTopN {
		n = maxTopN
	}
	return a.repo.TopScores(ctx, n)
}

// TeamExists reports whether a team name is already taken on the leaderboard
func (a *App) TeamExists(ctx context.Context, team string) (bool, error) {
	teamName := models.NormalizeTeamName(team)
	if teamName == "" {
		return false, apperr.New(apperr.KindInvalidInput, "team is required")
	}
	return a.repo.ScoreExists(ctx, teamName)
}
