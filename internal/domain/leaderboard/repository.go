package leaderboard

import "context"

// RosterProvider returns the top of the global leaderboard, ordered by rank.
// Implemented by the PostgreSQL repository and the Redis read-through cache.
type RosterProvider interface {
	TopRoster(ctx context.Context, limit int) ([]Entry, error)
}

// DefaultRosterSize is the number of global rows shown next to the user.
const DefaultRosterSize = 5
