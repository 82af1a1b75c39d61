// Package leaderboard ranks a user's physics topics and merges the user into
// the externally ranked global roster.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank is a global leaderboard position. Rank 1 is first place.
// Ranks are assigned upstream and may be non-contiguous.
type Rank int

// IsValid reports whether the rank is positive.
func (r Rank) IsValid() bool {
	return r > 0
}

// IsTop10 reports whether the rank is within the first ten places.
func (r Rank) IsTop10() bool {
	return r >= 1 && r <= 10
}

// String returns "#N".
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one leaderboard row.
type Entry struct {
	Rank        Rank
	UserID      uuid.UUID
	DisplayName string
	XP          int
	Level       int
	SolvedCount int

	// IsCurrentUser marks the row of the user viewing the dashboard.
	IsCurrentUser bool
}

// Clone returns a copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// String is used for logging.
func (e Entry) String() string {
	return fmt.Sprintf("Entry{Rank: %d, DisplayName: %s, XP: %d, Level: %d}",
		e.Rank, e.DisplayName, e.XP, e.Level)
}

// CurrentUser is the viewing user's own leaderboard data.
type CurrentUser struct {
	UserID      uuid.UUID
	DisplayName string
	Rank        Rank
	XP          int
	Level       int
	SolvedCount int
}

// CurrentUserFrom takes the rank from stats and XP and level from the
// leveling calculator, never from the roster.
func CurrentUserFrom(stats progress.UserStats) CurrentUser {
	info := progress.Calculate(stats)
	return CurrentUser{
		UserID:      stats.UserID,
		DisplayName: stats.DisplayName,
		Rank:        Rank(stats.Rank),
		XP:          info.XP,
		Level:       info.Level,
		SolvedCount: stats.TotalSolved,
	}
}

// Entry converts the current user into a flagged leaderboard row.
func (c CurrentUser) Entry() Entry {
	return Entry{
		Rank:          c.Rank,
		UserID:        c.UserID,
		DisplayName:   c.DisplayName,
		XP:            c.XP,
		Level:         c.Level,
		SolvedCount:   c.SolvedCount,
		IsCurrentUser: true,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MERGE
// ══════════════════════════════════════════════════════════════════════════════

// MergeLeaderboard adds the current user to a pre-ranked roster.
//
// Roster rows carrying the current user's ID are dropped, as is any stale
// IsCurrentUser flag on other rows, so the result holds exactly one current
// user row with freshly computed numbers. Rows are stable-sorted by rank;
// an unranked row (rank <= 0) goes after every ranked row instead of ahead
// of rank 1. The roster slice is not modified.
func MergeLeaderboard(roster []Entry, current CurrentUser) []Entry {
	merged := make([]Entry, 0, len(roster)+1)
	for _, e := range roster {
		if e.UserID == current.UserID {
			continue
		}
		e.IsCurrentUser = false
		merged = append(merged, e)
	}
	merged = append(merged, current.Entry())

	sort.SliceStable(merged, func(i, j int) bool {
		ri, rj := merged[i].Rank, merged[j].Rank
		if !ri.IsValid() || !rj.IsValid() {
			return ri.IsValid() && !rj.IsValid()
		}
		return ri < rj
	})
	return merged
}
