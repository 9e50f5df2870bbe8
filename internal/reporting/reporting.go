// Package reporting mirrors cheap aggregate counts from the in-memory
// model into Postgres on a timer, purely for external dashboards. It
// is never read back into the model: on any failure the mirror simply
// stays stale until the next tick.
package reporting

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/codeu-chat/internal/model"
)

// Source supplies the aggregate snapshot to mirror; view.View
// satisfies it.
type Source interface {
	GetCounts() model.Counts
}

// Mirror owns the Postgres connection used to persist periodic
// snapshots of the model's aggregate counts.
type Mirror struct {
	db     *sqlx.DB
	source Source
	log    *logger_lib.Logger
}

// Config holds the Postgres connection parameters, named the way the
// rest of this codebase's config sections are.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// New opens the Postgres connection and returns a Mirror ready to run.
func New(cfg Config, source Source, log *logger_lib.Logger) (*Mirror, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.User, cfg.Password, cfg.Database, cfg.Host, cfg.Port)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("reporting: connect: %w", err)
	}
	return &Mirror{db: db, source: source, log: log}, nil
}

// Close closes the underlying Postgres connection.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// EnsureSchema creates the mirror table if it does not already exist.
// Reporting is best-effort and additive; a failure here is logged but
// does not stop the server.
func (m *Mirror) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS server_counts (
		id INTEGER PRIMARY KEY DEFAULT 1,
		users INTEGER NOT NULL,
		conversations INTEGER NOT NULL,
		messages INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT single_row CHECK (id = 1)
	)`
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("reporting: ensure schema: %w", err)
	}
	return nil
}

// Refresh writes the current aggregate counts, upserting the single
// mirror row.
func (m *Mirror) Refresh(ctx context.Context) error {
	counts := m.source.GetCounts()

	query, args, err := sq.Insert("server_counts").
		Columns("id", "users", "conversations", "messages", "updated_at").
		Values(1, counts.Users, counts.Conversations, counts.Messages, sq.Expr("now()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET users = EXCLUDED.users, conversations = EXCLUDED.conversations, messages = EXCLUDED.messages, updated_at = now()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("reporting: build query: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reporting: upsert counts: %w", err)
	}
	return nil
}

// Run refreshes the mirror once per value received on tick until ctx
// is done, logging
// (not surfacing) any failure since the mirror is never authoritative.
func (m *Mirror) Run(ctx context.Context, tick <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if err := m.Refresh(ctx); err != nil {
				if m.log != nil {
					m.log.AddFuncName("Run")
					m.log.Error(err.Error())
				}
			}
		}
	}
}
