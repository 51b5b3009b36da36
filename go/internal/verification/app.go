package verification

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/models"
)

// VerificationRepository defines what the app layer needs from the repository
type VerificationRepository interface {
	FinishAndRecord(ctx context.Context, teamName string, now time.Time, badgeFor BadgeFunc) (*models.ScoreRecord, error)
	SaveScore(ctx context.Context, teamName, displayName string, durationSeconds int, badge models.Badge) (*models.ScoreRecord, error)
}

// BadgeEngine maps elapsed seconds to a badge tier.
type BadgeEngine interface {
	Badge(durationSeconds int) models.Badge
}

// App orchestrates final-password verification and scoring
type App struct {
	repo   VerificationRepository
	badges BadgeEngine
	clock  clockwork.Clock
	cfg    Config
}

// NewApp creates a new verification App
func NewApp(repo VerificationRepository, badges BadgeEngine, clock clockwork.Clock, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{
		repo:   repo,
		badges: badges,
		clock:  clock,
		cfg:    cfg,
	}, nil
}

// VerifyFinal validates a team's combined final answer and, when it is
// correct and the countdown has not expired, commits the team's single
// leaderboard entry. The portions in req.Answers are client-echoed results
// of the external puzzle validators and are taken at face value here.
func (a *App) VerifyFinal(ctx context.Context, req VerifyFinalRequest) (*VerifyFinalResult, error) {
	teamName := models.NormalizeTeamName(req.Team)
	if teamName == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "team is required")
	}
	if req.Password == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "password is required")
	}
	if req.Answers == nil {
		return nil, apperr.New(apperr.KindInvalidInput, "answers are required")
	}
	for _, key := range a.cfg.PortionOrder {
		if _, ok := req.Answers[key]; !ok {
			return nil, apperr.Newf(apperr.KindInvalidInput, "answers missing portion %q", key)
		}
	}
	if req.Suspect < a.cfg.SuspectMin || req.Suspect > a.cfg.SuspectMax {
		return nil, apperr.Newf(apperr.KindInvalidInput, "suspect must be between %d and %d", a.cfg.SuspectMin, a.cfg.SuspectMax)
	}

	if req.Password != a.expectedPassword(req.Answers) || req.Suspect != a.cfg.ExpectedSuspect {
		log.Debug().Str("team", teamName).Msg("final answer rejected")
		return &VerifyFinalResult{Success: false}, nil
	}

	now := a.clock.Now().UTC()
	rec, err := a.repo.FinishAndRecord(ctx, teamName, now, a.badges.Badge)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team", teamName).
		Int("duration_seconds", rec.DurationSeconds).
		Str("badge", string(rec.Badge)).
		Msg("final answer verified, score committed")

	return &VerifyFinalResult{
		Success:         true,
		Badge:           rec.Badge,
		DurationSeconds: rec.DurationSeconds,
	}, nil
}

// SaveScore records an externally timed score. No session is consulted, so
// the duration is trusted from the caller.
func (a *App) SaveScore(ctx context.Context, req SaveScoreRequest) (*models.ScoreRecord, error) {
	teamName := models.NormalizeTeamName(req.Team)
	if teamName == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "team is required")
	}
	if req.DurationSeconds < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "duration must not be negative")
	}

	badge := a.badges.Badge(req.DurationSeconds)
	rec, err := a.repo.SaveScore(ctx, teamName, strings.TrimSpace(req.Team), req.DurationSeconds, badge)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team", teamName).
		Int("duration_seconds", rec.DurationSeconds).
		Str("badge", string(rec.Badge)).
		Msg("untimed score saved")

	return rec, nil
}

func (a *App) expectedPassword(answers map[string]string) string {
	var b strings.Builder
	for _, key := range a.cfg.PortionOrder {
		b.WriteString(answers[key])
	}
	return b.String()
}
