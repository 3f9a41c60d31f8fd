// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/persistence/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  id        TEXT PRIMARY KEY,
  title     TEXT,
  sport     TEXT,
  league    TEXT,
  subtitle  TEXT,
  start_utc TEXT NOT NULL,
  stop_utc  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_utc);
`

// sqliteTimeLayout is what SQLite's datetime() returns and compares against.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store reads events from the schedule database.
type Store struct {
	db *sql.DB
}

// Open opens an existing schedule database for reading.
func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("stat event source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceMissing, path)
	}

	db, err := sqlite.OpenReadOnly(path, sqlite.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("open event source: %w", err)
	}
	return &Store{db: db}, nil
}

// Create opens (creating if needed) a writable schedule database and ensures the schema.
func Create(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("open event source: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the events table and its index if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LiveAndUpcoming returns events that have not ended at now and start no
// later than now+lookAhead, ordered by start then title.
// Rows with an empty or inverted window are skipped; a row whose timestamps
// cannot be parsed fails the whole query.
func (s *Store) LiveAndUpcoming(ctx context.Context, now time.Time, lookAhead time.Duration) ([]Event, error) {
	logger := xglog.WithComponentFromContext(ctx, "schedule")

	const query = `
SELECT id, title, sport, league, subtitle, start_utc, stop_utc
FROM events
WHERE datetime(stop_utc) > datetime(?)
  AND datetime(start_utc) <= datetime(?)
ORDER BY start_utc, title`

	nowArg := now.UTC().Format(sqliteTimeLayout)
	endArg := now.Add(lookAhead).UTC().Format(sqliteTimeLayout)

	rows, err := s.db.QueryContext(ctx, query, nowArg, endArg)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var id, startRaw, stopRaw string
		var title, sport, league, subtitle sql.NullString
		if err := rows.Scan(&id, &title, &sport, &league, &subtitle, &startRaw, &stopRaw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		start, err := ParseInstant(startRaw)
		if err != nil {
			return nil, fmt.Errorf("event %s start_utc: %w", id, err)
		}
		stop, err := ParseInstant(stopRaw)
		if err != nil {
			return nil, fmt.Errorf("event %s stop_utc: %w", id, err)
		}

		ev := Event{
			ID:       id,
			Title:    title.String,
			Sport:    sport.String,
			League:   league.String,
			Subtitle: subtitle.String,
			Start:    start,
			Stop:     stop,
		}
		if err := ev.Validate(); err != nil {
			logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "event.skipped").
				Str(xglog.FieldEventID, id).
				Msg("skipping event with invalid window")
			continue
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	logger.Debug().
		Str(xglog.FieldEvent, "events.query").
		Time("now", now).
		Dur("look_ahead", lookAhead).
		Int("count", len(events)).
		Msg("queried live and upcoming events")

	return events, nil
}

// Upsert inserts or replaces events by id in one transaction.
func (s *Store) Upsert(ctx context.Context, events ...Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO events (id, title, sport, league, subtitle, start_utc, stop_utc)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  sport = excluded.sport,
  league = excluded.league,
  subtitle = excluded.subtitle,
  start_utc = excluded.start_utc,
  stop_utc = excluded.stop_utc`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err = stmt.ExecContext(ctx,
			ev.ID,
			nullable(ev.Title), nullable(ev.Sport), nullable(ev.League), nullable(ev.Subtitle),
			FormatInstant(ev.Start), FormatInstant(ev.Stop),
		); err != nil {
			return fmt.Errorf("upsert event %s: %w", ev.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
