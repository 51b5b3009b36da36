package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cyberescape/backend/go/internal/apperr"
	"github.com/cyberescape/backend/go/internal/models"
	"github.com/cyberescape/backend/go/internal/session"
	"github.com/cyberescape/backend/go/internal/verification"
)

// SessionApp defines what the handler needs from the session application
type SessionApp interface {
	Start(ctx context.Context, req session.StartSessionRequest) (*models.GameSession, error)
	GetStatus(ctx context.Context, team string) (*session.Status, error)
	Reset(ctx context.Context, team string) error
}

// VerificationApp defines what the handler needs from the verification application
type VerificationApp interface {
	VerifyFinal(ctx context.Context, req verification.VerifyFinalRequest) (*verification.VerifyFinalResult, error)
	SaveScore(ctx context.Context, req verification.SaveScoreRequest) (*models.ScoreRecord, error)
}

// LeaderboardApp defines what the handler needs from the leaderboard application
type LeaderboardApp interface {
	TopN(ctx context.Context, n int) ([]models.ScoreRecord, error)
	TeamExists(ctx context.Context, team string) (bool, error)
}

// Handler exposes the game engine over JSON endpoints
type Handler struct {
	sessions     SessionApp
	verification VerificationApp
	leaderboard  LeaderboardApp
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions SessionApp, verification VerificationApp, leaderboard LeaderboardApp) *Handler {
	return &Handler{
		sessions:     sessions,
		verification: verification,
		leaderboard:  leaderboard,
	}
}

// RegisterRoutes registers all API routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/start-session", h.handleStartSession)
	mux.HandleFunc("/api/session-status", h.handleSessionStatus)
	mux.HandleFunc("/api/reset-session", h.handleResetSession)
	mux.HandleFunc("/api/verify-final", h.handleVerifyFinal)
	mux.HandleFunc("/api/save-score", h.handleSaveScore)
	mux.HandleFunc("/api/scores", h.handleScores)
	mux.HandleFunc("/api/check-team", h.handleCheckTeam)
}

type startSessionResponse struct {
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req session.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	sess, err := h.sessions.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{
		StartedAt: sess.StartedAt,
		EndsAt:    sess.EndsAt,
	})
}

func (h *Handler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	status, err := h.sessions.GetStatus(r.Context(), r.URL.Query().Get("team"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

type resetSessionRequest struct {
	Team string `json:"team"`
}

func (h *Handler) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req resetSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	if err := h.sessions.Reset(r.Context(), req.Team); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerifyFinal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req verification.VerifyFinalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	result, err := h.verification.VerifyFinal(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type saveScoreResponse struct {
	Badge models.Badge `json:"badge"`
}

func (h *Handler) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req verification.SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.KindInvalidInput, "invalid JSON body"))
		return
	}

	rec, err := h.verification.SaveScore(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saveScoreResponse{Badge: rec.Badge})
}

type leaderboardEntry struct {
	Team            string       `json:"team_name"`
	DurationSeconds int          `json:"duration_seconds"`
	CreatedAt       time.Time    `json:"created_at"`
	Badge           models.Badge `json:"badge"`
}

func (h *Handler) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	n := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperr.New(apperr.KindInvalidInput, "limit must be an integer"))
			return
		}
		n = parsed
	}

	records, err := h.leaderboard.TopN(r.Context(), n)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]leaderboardEntry, len(records))
	for i, rec := range records {
		entries[i] = leaderboardEntry{
			Team:            rec.DisplayName,
			DurationSeconds: rec.DurationSeconds,
			CreatedAt:       rec.CreatedAt,
			Badge:           rec.Badge,
		}
	}

	writeJSON(w, http.StatusOK, entries)
}

type checkTeamResponse struct {
	Exists bool `json:"exists"`
}

func (h *Handler) handleCheckTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	exists, err := h.leaderboard.TeamExists(r.Context(), r.URL.Query().Get("team"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkTeamResponse{Exists: exists})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// writeError maps the error taxonomy to status codes. Storage faults are
// logged with their cause and surfaced as a generic transient failure.
func writeError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperr.Message(err)})
	case apperr.KindNotFound, apperr.KindNoSession:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperr.Message(err)})
	case apperr.KindAlreadyRunning, apperr.KindConflict:
		writeJSON(w, http.StatusConflict, errorResponse{Error: apperr.Message(err)})
	case apperr.KindStorageUnavailable:
		log.Error().Err(err).Msg("storage unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service temporarily unavailable"})
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
