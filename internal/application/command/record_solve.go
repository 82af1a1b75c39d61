// Package command contains write operations.
package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/shared"
	"github.com/physics-hub/practice-hub/pkg/logger"
	"github.com/physics-hub/practice-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SOLVE COMMAND
// Appends one accepted solution to a user's solve history, which feeds the
// contribution calendar.
// ══════════════════════════════════════════════════════════════════════════════

// MaxProblemIDLength matches solve_events.problem_id.
const MaxProblemIDLength = 100

// clockSkew is how far in the future a client timestamp may be.
const clockSkew = 5 * time.Minute

// RecordSolveCommand contains the data of one accepted solution.
type RecordSolveCommand struct {
	UserID    uuid.UUID
	ProblemID string

	// SolvedAt defaults to now when zero.
	SolvedAt time.Time
}

// Validate checks the command against now.
func (c RecordSolveCommand) Validate(now time.Time) error {
	if c.UserID == uuid.Nil {
		return shared.ErrMissingUserID
	}
	id := strings.TrimSpace(c.ProblemID)
	if id == "" {
		return shared.NewDomainError("activity", "RecordSolve", shared.ErrInvalidInput, "problem_id is required")
	}
	if len(id) > MaxProblemIDLength {
		return shared.NewDomainError("activity", "RecordSolve", shared.ErrValueOutOfRange, "problem_id is too long")
	}
	if !c.SolvedAt.IsZero() && c.SolvedAt.After(now.Add(clockSkew)) {
		return shared.NewDomainError("activity", "RecordSolve", shared.ErrValueOutOfRange, "solved_at is in the future")
	}
	return nil
}

// RecordSolveResult reports what was stored.
type RecordSolveResult struct {
	UserID    string    `json:"user_id"`
	ProblemID string    `json:"problem_id"`
	SolvedAt  time.Time `json:"solved_at"`

	// Recorded is false when the problem was already in the history.
	Recorded bool `json:"recorded"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SolveRecorder persists solve events. Recording the same problem twice for a
// user is a no-op that reports false.
type SolveRecorder interface {
	RecordSolve(ctx context.Context, userID uuid.UUID, problemID string, solvedAt time.Time) (bool, error)
}

// RecordSolveHandler handles RecordSolveCommand.
type RecordSolveHandler struct {
	recorder SolveRecorder
	clock    timeutil.Clock
	log      *logger.Logger
}

// NewRecordSolveHandler creates the handler. A nil clock uses UTC wall time.
func NewRecordSolveHandler(recorder SolveRecorder, clock timeutil.Clock, log *logger.Logger) *RecordSolveHandler {
	if clock == nil {
		clock = timeutil.SystemClock(time.UTC)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordSolveHandler{
		recorder: recorder,
		clock:    clock,
		log:      log.With(logger.Component("record_solve")),
	}
}

// Handle validates and stores the solve.
func (h *RecordSolveHandler) Handle(ctx context.Context, cmd RecordSolveCommand) (*RecordSolveResult, error) {
	now := h.clock()
	if err := cmd.Validate(now); err != nil {
		return nil, err
	}

	solvedAt := cmd.SolvedAt
	if solvedAt.IsZero() {
		solvedAt = now
	}
	problemID := strings.TrimSpace(cmd.ProblemID)

	recorded, err := h.recorder.RecordSolve(ctx, cmd.UserID, problemID, solvedAt)
	if err != nil {
		return nil, err
	}

	log := h.log.With(logger.UserID(cmd.UserID.String()), logger.String("problem_id", problemID))
	if recorded {
		log.Info("solve recorded", logger.Time("solved_at", solvedAt))
	} else {
		log.Debug("solve already recorded")
	}

	return &RecordSolveResult{
		UserID:    cmd.UserID.String(),
		ProblemID: problemID,
		SolvedAt:  solvedAt,
		Recorded:  recorded,
	}, nil
}
