package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/models"
	"github.com/cyberescape/backend/go/internal/scoring"
)

// fakeVerificationRepo reproduces the transactional contract of the real
// repository: session row locked, one score per team, finish is terminal.
type fakeVerificationRepo struct {
	mu       sync.Mutex
	sessions map[string]models.GameSession
	scores   map[string]models.ScoreRecord
	calls    int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		sessions: make(map[string]models.GameSession),
		scores:   make(map[string]models.ScoreRecord),
	}
}

func (r *fakeVerificationRepo) putSession(sess models.GameSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.TeamName] = sess
}

func (r *fakeVerificationRepo) FinishAndRecord(ctx context.Context, teamName string, now time.Time, badgeFor BadgeFunc) (*models.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	sess, ok := r.sessions[teamName]
	if !ok {
		return nil, apperr.New(apperr.KindNoSession, "no session for team")
	}
	if sess.FinishedAt != nil {
		return nil, apperr.New(apperr.KindConflict, "final answer already accepted")
	}
	if now.After(sess.EndsAt) {
		return nil, apperr.New(apperr.KindConflict, "time expired")
	}
	if _, taken := r.scores[teamName]; taken {
		return nil, apperr.New(apperr.KindConflict, "team name taken")
	}

	duration := int(now.Sub(sess.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	rec := models.ScoreRecord{
		ID:              uuid.New(),
		TeamName:        teamName,
		DisplayName:     sess.DisplayName,
		DurationSeconds: duration,
		Badge:           badgeFor(duration),
		CreatedAt:       now,
	}
	r.scores[teamName] = rec
	sess.FinishedAt = &now
	r.sessions[teamName] = sess
	return &rec, nil
}

func (r *fakeVerificationRepo) SaveScore(ctx context.Context, teamName, displayName string, durationSeconds int, badge models.Badge) (*models.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.scores[teamName]; taken {
		return nil, apperr.New(apperr.KindConflict, "team name taken")
	}
	rec := models.ScoreRecord{
		ID:              uuid.New(),
		TeamName:        teamName,
		DisplayName:     displayName,
		DurationSeconds: durationSeconds,
		Badge:           badge,
	}
	r.scores[teamName] = rec
	return &rec, nil
}

func correctAnswers() map[string]string {
	return map[string]string{
		PuzzleCaesar:            "AB",
		PuzzlePhishing:          "CD",
		PuzzleStrongestPassword: "EF",
		PuzzleOsint:             "GH",
	}
}

func correctRequest(team string) VerifyFinalRequest {
	return VerifyFinalRequest{
		Team:     team,
		Password: "ABCDEFGH",
		Suspect:  3,
		Answers:  correctAnswers(),
	}
}

func newVerifyApp(t *testing.T) (*App, *fakeVerificationRepo, *clockwork.FakeClock) {
	t.Helper()
	repo := newFakeVerificationRepo()
	engine, err := scoring.NewEngine(scoring.DefaultTiers())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC))
	app, err := NewApp(repo, engine, clock, DefaultConfig())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, repo, clock
}

func startSession(repo *fakeVerificationRepo, clock clockwork.Clock, team string, duration time.Duration) {
	now := clock.Now().UTC()
	repo.putSession(models.GameSession{
		TeamName:    models.NormalizeTeamName(team),
		DisplayName: team,
		StartedAt:   now,
		EndsAt:      now.Add(duration),
	})
}

func TestVerifyFinalValidation(t *testing.T) {
	app, _, _ := newVerifyApp(t)
	ctx := context.Background()

	missingPortion := correctAnswers()
	delete(missingPortion, PuzzleOsint)

	tests := []struct {
		name string
		mod  func(*VerifyFinalRequest)
	}{
		{"empty team", func(r *VerifyFinalRequest) { r.Team = "  " }},
		{"empty password", func(r *VerifyFinalRequest) { r.Password = "" }},
		{"nil answers", func(r *VerifyFinalRequest) { r.Answers = nil }},
		{"missing portion", func(r *VerifyFinalRequest) { r.Answers = missingPortion }},
		{"suspect below range", func(r *VerifyFinalRequest) { r.Suspect = 0 }},
		{"suspect above range", func(r *VerifyFinalRequest) { r.Suspect = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := correctRequest("alpha")
			tt.mod(&req)
			if _, err := app.VerifyFinal(ctx, req); !apperr.IsInvalidInput(err) {
				t.Errorf("VerifyFinal error = %v, want InvalidInput", err)
			}
		})
	}
}

func TestVerifyFinalWrongAnswerIsNotAnError(t *testing.T) {
	app, repo, clock := newVerifyApp(t)
	ctx := context.Background()
	startSession(repo, clock, "alpha", 10*time.Minute)

	wrongPassword := correctRequest("alpha")
	wrongPassword.Password = "XXXX"

	wrongSuspect := correctRequest("alpha")
	wrongSuspect.Suspect = 2

	for name, req := range map[string]VerifyFinalRequest{
		"wrong password": wrongPassword,
		"wrong suspect":  wrongSuspect,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := app.VerifyFinal(ctx, req)
			if err != nil {
				t.Fatalf("VerifyFinal: %v", err)
			}
			if res.Success {
				t.Error("Success = true for a wrong answer")
			}
		})
	}

	// Rejected answers never touch the store, so the team can retry.
	if repo.calls != 0 {
		t.Errorf("repository called %d times for rejected answers", repo.calls)
	}
}

func TestVerifyFinalHappyPath(t *testing.T) {
	app, repo, clock := newVerifyApp(t)
	ctx := context.Background()
	startSession(repo, clock, "Alpha", 10*time.Minute)

	clock.Advance(90 * time.Second)

	res, err := app.VerifyFinal(ctx, correctRequest("Alpha"))
	if err != nil {
		t.Fatalf("VerifyFinal: %v", err)
	}

	want := &VerifyFinalResult{Success: true, Badge: models.BadgeGold, DurationSeconds: 90}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("VerifyFinal result mismatch (-want +got):\n%s", diff)
	}
	if rec, ok := repo.scores["alpha"]; !ok {
		t.Error("no score committed")
	} else if rec.DisplayName != "Alpha" {
		t.Errorf("DisplayName = %q, want original casing preserved", rec.DisplayName)
	}
}

func TestVerifyFinalWithoutSession(t *testing.T) {
	app, _, _ := newVerifyApp(t)

	_, err := app.VerifyFinal(context.Background(), correctRequest("alpha"))
	if apperr.KindOf(err) != apperr.KindNoSession {
		t.Errorf("VerifyFinal error = %v, want NoSession", err)
	}
}

func TestVerifyFinalAfterExpiry(t *testing.T) {
	app, repo, clock := newVerifyApp(t)
	startSession(repo, clock, "alpha", 10*time.Minute)

	clock.Advance(10*time.Minute + time.Second)

	_, err := app.VerifyFinal(context.Background(), correctRequest("alpha"))
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("VerifyFinal error = %v, want Conflict", err)
	}
	if len(repo.scores) != 0 {
		t.Error("score committed for an expired session")
	}
}

func TestVerifyFinalSecondAttemptConflicts(t *testing.T) {
	app, repo, clock := newVerifyApp(t)
	ctx := context.Background()
	startSession(repo, clock, "alpha", 10*time.Minute)

	if _, err := app.VerifyFinal(ctx, correctRequest("alpha")); err != nil {
		t.Fatalf("first VerifyFinal: %v", err)
	}
	_, err := app.VerifyFinal(ctx, correctRequest("alpha"))
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("second VerifyFinal error = %v, want Conflict", err)
	}
}

func TestVerifyFinalExactlyOneWinner(t *testing.T) {
	app, repo, clock := newVerifyApp(t)
	ctx := context.Background()
	startSession(repo, clock, "alpha", 10*time.Minute)

	const attempts = 50
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := app.VerifyFinal(ctx, correctRequest("alpha"))
			if err == nil && !res.Success {
				err = apperr.New(apperr.KindUnknown, "unexpected rejection")
			}
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperr.KindOf(err) == apperr.KindConflict:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if len(repo.scores) != 1 {
		t.Errorf("scores committed = %d, want 1", len(repo.scores))
	}
}

func TestSaveScore(t *testing.T) {
	app, repo, _ := newVerifyApp(t)
	ctx := context.Background()

	rec, err := app.SaveScore(ctx, SaveScoreRequest{Team: "Bravo", DurationSeconds: 250})
	if err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if rec.Badge != models.BadgeSilver {
		t.Errorf("Badge = %q, want silver", rec.Badge)
	}
	if rec.TeamName != "bravo" || rec.DisplayName != "Bravo" {
		t.Errorf("names = (%q, %q), want (bravo, Bravo)", rec.TeamName, rec.DisplayName)
	}

	if _, err := app.SaveScore(ctx, SaveScoreRequest{Team: "bravo", DurationSeconds: 100}); apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate SaveScore error = %v, want Conflict", err)
	}
	if len(repo.scores) != 1 {
		t.Errorf("scores = %d, want 1", len(repo.scores))
	}
}

func TestSaveScoreValidation(t *testing.T) {
	app, _, _ := newVerifyApp(t)
	ctx := context.Background()

	if _, err := app.SaveScore(ctx, SaveScoreRequest{Team: "", DurationSeconds: 10}); !apperr.IsInvalidInput(err) {
		t.Errorf("empty team error = %v, want InvalidInput", err)
	}
	if _, err := app.SaveScore(ctx, SaveScoreRequest{Team: "alpha", DurationSeconds: -1}); !apperr.IsInvalidInput(err) {
		t.Errorf("negative duration error = %v, want InvalidInput", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"empty order", Config{SuspectMin: 1, SuspectMax: 4, ExpectedSuspect: 2}, true},
		{"repeated key", Config{PortionOrder: []string{"a", "a"}, SuspectMin: 1, SuspectMax: 4, ExpectedSuspect: 2}, true},
		{"empty key", Config{PortionOrder: []string{""}, SuspectMin: 1, SuspectMax: 4, ExpectedSuspect: 2}, true},
		{"empty suspect range", Config{PortionOrder: []string{"a"}, SuspectMin: 4, SuspectMax: 1, ExpectedSuspect: 2}, true},
		{"expected outside range", Config{PortionOrder: []string{"a"}, SuspectMin: 1, SuspectMax: 4, ExpectedSuspect: 7}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
