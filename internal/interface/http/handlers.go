package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/application/command"
	"github.com/physics-hub/practice-hub/internal/application/query"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "Physics Practice Hub API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":       "/health",
			"achievements": "/api/v1/achievements",
			"dashboard":    "/api/v1/users/{userID}/dashboard",
			"level":        "/api/v1/users/{userID}/level",
			"solves":       "/api/v1/users/{userID}/solves",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status": "healthy",
			"uptime": s.Uptime().Round(time.Second).String(),
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDashboard handles GET /api/v1/users/{userID}/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Dashboard == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	view, err := s.deps.Dashboard.Handle(r.Context(), query.GetDashboardQuery{UserID: userID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// handleGetLevel handles GET /api/v1/users/{userID}/level
func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	if s.deps.Level == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Level handler not configured")
		return
	}
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	view, err := s.deps.Level.Handle(r.Context(), query.GetLevelQuery{UserID: userID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// userAchievementsView is the achievements slice of the dashboard.
type userAchievementsView struct {
	UserID        string                 `json:"user_id"`
	Achievements  []query.AchievementDTO `json:"achievements"`
	UnlockedCount int                    `json:"unlocked_count"`
	TotalCount    int                    `json:"total_count"`
	EarnedXP      int                    `json:"earned_xp"`
}

// handleGetUserAchievements handles GET /api/v1/users/{userID}/achievements
func (s *Server) handleGetUserAchievements(w http.ResponseWriter, r *http.Request) {
	if s.deps.Dashboard == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	view, err := s.deps.Dashboard.Handle(r.Context(), query.GetDashboardQuery{UserID: userID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userAchievementsView{
		UserID:        view.UserID,
		Achievements:  view.Achievements,
		UnlockedCount: view.UnlockedCount,
		TotalCount:    view.TotalCount,
		EarnedXP:      view.EarnedXP,
	})
}

// handleListAchievements handles GET /api/v1/achievements
func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Achievements.Handle())
}

// ══════════════════════════════════════════════════════════════════════════════
// SOLVE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordSolveRequest struct {
	ProblemID string     `json:"problem_id"`
	SolvedAt  *time.Time `json:"solved_at,omitempty"`
}

// handleRecordSolve handles POST /api/v1/users/{userID}/solves
func (s *Server) handleRecordSolve(w http.ResponseWriter, r *http.Request) {
	if s.deps.RecordSolve == nil {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Solve history is read-only in this deployment")
		return
	}
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req recordSolveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object with problem_id")
		return
	}

	cmd := command.RecordSolveCommand{UserID: userID, ProblemID: req.ProblemID}
	if req.SolvedAt != nil {
		cmd.SolvedAt = *req.SolvedAt
	}

	result, err := s.deps.RecordSolve.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Recorded {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_user_id", "userID must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsContractViolation(err):
		logger.FromContext(r.Context()).Error("data source broke its contract",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", publicMessage(err))
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", publicMessage(err))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, r, http.StatusGatewayTimeout, "timeout", "Request timed out")
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func publicMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
