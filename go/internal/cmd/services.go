package main

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/cyberescape/backend/go/internal/gamedb"
	"github.com/cyberescape/backend/go/internal/leaderboard"
	"github.com/cyberescape/backend/go/internal/scoring"
	"github.com/cyberescape/backend/go/internal/session"
	"github.com/cyberescape/backend/go/internal/verification"
)

type Services struct {
	Sessions     *session.App
	Verification *verification.App
	Leaderboard  *leaderboard.App
}

func setupServices(database *sql.DB, clock clockwork.Clock, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP handler

	queries := gamedb.New(database)

	engine, err := scoring.NewEngine(config.scoringTiers())
	if err != nil {
		return nil, fmt.Errorf("invalid badge table: %w", err)
	}

	sessionRepo := session.NewRepository(queries)
	sessionApp := session.NewApp(sessionRepo, clock)

	verificationRepo := verification.NewRepository(queries, database)
	verificationApp, err := verification.NewApp(verificationRepo, engine, clock, config.Game)
	if err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	leaderboardRepo := leaderboard.NewRepository(queries)
	leaderboardApp := leaderboard.NewApp(leaderboardRepo)

	return &Services{
		Sessions:     sessionApp,
		Verification: verificationApp,
		Leaderboard:  leaderboardApp,
	}, nil
}
