package verification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/gamedb"
	"github.com/cyberescape/backend/go/internal/models"
	"github.com/cyberescape/backend/go/internal/outbox"
	"github.com/cyberescape/backend/go/internal/sqlutil"
)

// BadgeFunc maps a server-measured duration to a badge inside the commit
// transaction.
type BadgeFunc func(durationSeconds int) models.Badge

// Repository owns the atomic finish-and-score transaction.
type Repository struct {
	queries *gamedb.Queries
	sqlDB   *sql.DB
}

// NewRepository creates a new verification repository
func NewRepository(queries *gamedb.Queries, sqlDB *sql.DB) *Repository {
	return &Repository{
		queries: queries,
		sqlDB:   sqlDB,
	}
}

// FinishAndRecord commits exactly one leaderboard entry for a team: it locks
// the session row, measures the elapsed time server-side, inserts the score
// and marks the session finished, all in one transaction. Under concurrent
// calls for the same team one caller commits; the rest observe a Conflict.
// The scores uniqueness constraint is the final backstop.
func (r *Repository) FinishAndRecord(ctx context.Context, teamName string, now time.Time, badgeFor BadgeFunc) (*models.ScoreRecord, error) {
	var rec *models.ScoreRecord

	err := sqlutil.Run(ctx, r.sqlDB,
		func(tx *sql.Tx) *gamedb.Queries { return r.queries.WithTx(tx) },
		func(q *gamedb.Queries) error {
			sess, err := q.GetSessionForUpdate(ctx, teamName)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.New(apperr.KindNoSession, "no session for team")
				}
				return apperr.Wrap(apperr.KindStorageUnavailable, "failed to lock session", err)
			}
			if sess.FinishedAt.Valid {
				return apperr.New(apperr.KindConflict, "already finished")
			}
			if now.After(sess.EndsAt) {
				return apperr.New(apperr.KindConflict, "time expired")
			}

			duration := int(now.Sub(sess.StartedAt).Seconds())
			if duration < 0 {
				duration = 0
			}
			badge := badgeFor(duration)

			score, err := q.CreateScore(ctx, gamedb.CreateScoreParams{
				ID:              uuid.New(),
				TeamName:        teamName,
				DisplayName:     sess.DisplayName,
				DurationSeconds: int32(duration),
				Badge:           string(badge),
			})
			if err != nil {
				if isUniqueViolation(err) {
					return apperr.New(apperr.KindConflict, "team name taken")
				}
				return apperr.Wrap(apperr.KindStorageUnavailable, "failed to insert score", err)
			}

			rows, err := q.FinishSession(ctx, gamedb.FinishSessionParams{
				TeamName:   teamName,
				FinishedAt: now,
			})
			if err != nil {
				return apperr.Wrap(apperr.KindStorageUnavailable, "failed to finish session", err)
			}
			if rows == 0 {
				// Backstop; the locked read above already saw not-finished.
				return apperr.New(apperr.KindConflict, "already finished")
			}

			if err := insertScoreOutbox(ctx, q, score); err != nil {
				return err
			}

			rec = dbScoreToModel(score)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveScore inserts a score without touching sessions. Uniqueness of the
// team's score row is still enforced; the duration is whatever the caller
// measured.
func (r *Repository) SaveScore(ctx context.Context, teamName, displayName string, durationSeconds int, badge models.Badge) (*models.ScoreRecord, error) {
	var rec *models.ScoreRecord

	err := sqlutil.Run(ctx, r.sqlDB,
		func(tx *sql.Tx) *gamedb.Queries { return r.queries.WithTx(tx) },
		func(q *gamedb.Queries) error {
			score, err := q.CreateScore(ctx, gamedb.CreateScoreParams{
				ID:              uuid.New(),
				TeamName:        teamName,
				DisplayName:     displayName,
				DurationSeconds: int32(durationSeconds),
				Badge:           string(badge),
			})
			if err != nil {
				if isUniqueViolation(err) {
					return apperr.New(apperr.KindConflict, "team name taken")
				}
				return apperr.Wrap(apperr.KindStorageUnavailable, "failed to insert score", err)
			}

			if err := insertScoreOutbox(ctx, q, score); err != nil {
				return err
			}

			rec = dbScoreToModel(score)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func insertScoreOutbox(ctx context.Context, q *gamedb.Queries, score gamedb.Score) error {
	payload, err := json.Marshal(outbox.ScoreCommittedPayload{
		Team:            score.TeamName,
		DisplayName:     score.DisplayName,
		DurationSeconds: int(score.DurationSeconds),
		Badge:           score.Badge,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindStorageUnavailable, "failed to marshal score event", err)
	}

	err = q.InsertOutboxEvent(ctx, gamedb.InsertOutboxEventParams{
		ID:        uuid.New(),
		TeamName:  score.TeamName,
		EventType: outbox.EventScoreCommitted,
		Payload:   pqtype.NullRawMessage{RawMessage: payload, Valid: true},
	})
	if err != nil {
		return apperr.Wrap(apperr.KindStorageUnavailable, "failed to insert outbox event", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func dbScoreToModel(row gamedb.Score) *models.ScoreRecord {
	return &models.ScoreRecord{
		ID:              row.ID,
		TeamName:        row.TeamName,
		DisplayName:     row.DisplayName,
		DurationSeconds: int(row.DurationSeconds),
		Badge:           models.Badge(row.Badge),
		CreatedAt:       row.CreatedAt,
	}
}
