package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one forward schema step.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	AppliedAt time.Time
	IsApplied bool
}

const migrationsTable = "schema_migrations"

// Migrator applies embedded migrations in version order.
type Migrator struct {
	conn       *Connection
	migrations []Migration
}

// NewMigrator creates a migrator with the embedded schema.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn, migrations: Migrations()}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, "SELECT version, applied_at FROM "+migrationsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var (
			version   int
			appliedAt time.Time
		)
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		out[version] = appliedAt
	}
	return out, rows.Err()
}

// Migrate applies every pending migration, each in its own transaction.
// It returns the number of migrations applied.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if _, ok := done[mig.Version]; ok {
			continue
		}
		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO "+migrationsTable+" (version, name) VALUES ($1, $2)", mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%w: version %d (%s): %v", ErrMigrationFailed, mig.Version, mig.Name, err)
		}
		count++
	}
	return count, nil
}

// Status lists the embedded migrations with their applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	for i := range out {
		if at, ok := done[out[i].Version]; ok {
			out[i].IsApplied = true
			out[i].AppliedAt = at
		}
	}
	return out, nil
}

// Migrations returns the embedded schema steps ordered by version.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_users_and_stats", UpSQL: migration001},
		{Version: 2, Name: "create_topics", UpSQL: migration002},
		{Version: 3, Name: "create_solve_events", UpSQL: migration003},
		{Version: 4, Name: "create_leaderboard_roster", UpSQL: migration004},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS AND AGGREGATE COUNTERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001 = `
CREATE TABLE IF NOT EXISTS users (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    display_name VARCHAR(100) NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_stats (
    user_id         UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    easy_solved     INTEGER NOT NULL DEFAULT 0,
    medium_solved   INTEGER NOT NULL DEFAULT 0,
    hard_solved     INTEGER NOT NULL DEFAULT 0,
    easy_total      INTEGER NOT NULL DEFAULT 0,
    medium_total    INTEGER NOT NULL DEFAULT 0,
    hard_total      INTEGER NOT NULL DEFAULT 0,
    total_solved    INTEGER NOT NULL DEFAULT 0,
    total_problems  INTEGER NOT NULL DEFAULT 0,
    global_rank     INTEGER NOT NULL DEFAULT 0,
    total_users     INTEGER NOT NULL DEFAULT 0,
    streak_days     INTEGER NOT NULL DEFAULT 0,
    acceptance_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT user_stats_non_negative CHECK (
        easy_solved >= 0 AND medium_solved >= 0 AND hard_solved >= 0 AND streak_days >= 0
    )
);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: TOPIC CATALOG AND PER-USER TOPIC PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

const migration002 = `
CREATE TABLE IF NOT EXISTS topics (
    id             SERIAL PRIMARY KEY,
    name           VARCHAR(100) NOT NULL UNIQUE,
    slug           VARCHAR(100) NOT NULL UNIQUE,
    position       INTEGER NOT NULL,
    total_problems INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_topics_position ON topics(position);

CREATE TABLE IF NOT EXISTS user_topic_progress (
    user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    topic_id   INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    solved     INTEGER NOT NULL DEFAULT 0,
    xp         INTEGER NOT NULL DEFAULT 0,
    rank_label VARCHAR(20) NOT NULL DEFAULT 'Novice',
    PRIMARY KEY (user_id, topic_id),

    CONSTRAINT valid_rank_label CHECK (rank_label IN ('Expert', 'Advanced', 'Intermediate', 'Beginner', 'Novice'))
);

INSERT INTO topics (name, slug, position, total_problems) VALUES
    ('Classical Mechanics',   'classical-mechanics',   1,  25),
    ('Electromagnetism',      'electromagnetism',      2,  20),
    ('Quantum Mechanics',     'quantum-mechanics',     3,  18),
    ('Thermodynamics',        'thermodynamics',        4,  15),
    ('Electrodynamics',       'electrodynamics',       5,  16),
    ('Atomic Physics',        'atomic-physics',        6,  14),
    ('Particle Physics',      'particle-physics',      7,  17),
    ('Nuclear Physics',       'nuclear-physics',       8,  12),
    ('Statistical Mechanics', 'statistical-mechanics', 9,  12),
    ('Special Relativity',    'special-relativity',    10, 9),
    ('General Relativity',    'general-relativity',    11, 8),
    ('Astronomy',             'astronomy',             12, 11),
    ('Astrophysics',          'astrophysics',          13, 13)
ON CONFLICT (name) DO NOTHING;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: SOLVE HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration003 = `
CREATE TABLE IF NOT EXISTS solve_events (
    id         BIGSERIAL PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    problem_id VARCHAR(100) NOT NULL,
    solved_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT solve_events_once UNIQUE (user_id, problem_id)
);

CREATE INDEX IF NOT EXISTS idx_solve_events_user_time ON solve_events(user_id, solved_at DESC);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: GLOBAL ROSTER
// ══════════════════════════════════════════════════════════════════════════════

const migration004 = `
CREATE TABLE IF NOT EXISTS leaderboard_roster (
    rank         INTEGER PRIMARY KEY CHECK (rank > 0),
    user_id      UUID NOT NULL UNIQUE,
    display_name VARCHAR(100) NOT NULL,
    xp           INTEGER NOT NULL DEFAULT 0,
    level        INTEGER NOT NULL DEFAULT 1,
    solved       INTEGER NOT NULL DEFAULT 0,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
