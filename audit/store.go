/*
Package audit provides a SQLite-backed append-only event log and
snapshot blob store for capacity.Engine mutations, supplementing
spec.md §3.3's "checkpoints are opaque immutable snapshots" with
durable persistence, and §4.4.3/§4.4.4's reporting of mutations with a
queryable history.

Grounded directly on store/sqlite/sqlite.go: WAL mode, migrate() on
New(), an append-only events table, and a sync.RWMutex guarding access.
*/
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brightloom/schedcore/capacity"
)

// EventType names a kind of capacity mutation recorded in the log.
type EventType string

const (
	EventCommit         EventType = "commit"
	EventRelease        EventType = "release"
	EventSetUnavailable EventType = "set_unavailable"
	EventSetAvailable   EventType = "set_available"
	EventExtend         EventType = "extend"
)

// Event is one append-only row in the audit trail.
type Event struct {
	ID          string
	ResourceID  string
	Type        EventType
	OperationID string // empty for range mutations (set_unavailable/available/extend)
	Begin       int64
	End         int64
	CreatedAt   time.Time
}

// Store persists events and snapshot blobs using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if necessary) a SQLite-backed audit store at
// dbPath. Use ":memory:" for an in-memory, process-lifetime store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		operation_id TEXT,
		begin_unit INTEGER NOT NULL,
		end_unit INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_resource
		ON events(resource_id, created_at);

	CREATE TABLE IF NOT EXISTS snapshots (
		resource_id TEXT NOT NULL,
		label TEXT NOT NULL,
		blob BLOB NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (resource_id, label)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordEvent appends ev to the log. Events are never updated or
// deleted; corrections happen by recording another event.
func (s *Store) RecordEvent(ctx context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, resource_id, event_type, operation_id, begin_unit, end_unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ResourceID, string(ev.Type), ev.OperationID, ev.Begin, ev.End,
		ev.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("audit: record event: %w", err)
	}
	return nil
}

// ListEvents returns every event recorded for resourceID, oldest first.
func (s *Store) ListEvents(ctx context.Context, resourceID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource_id, event_type, operation_id, begin_unit, end_unit, created_at
		FROM events WHERE resource_id = ? ORDER BY created_at ASC`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var eventType, createdAt string
		var operationID sql.NullString
		if err := rows.Scan(&ev.ID, &ev.ResourceID, &eventType, &operationID, &ev.Begin, &ev.End, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		ev.Type = EventType(eventType)
		ev.OperationID = operationID.String
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SaveSnapshot persists snap as an opaque blob under (resourceID, label),
// replacing any snapshot previously saved under the same key.
func (s *Store) SaveSnapshot(ctx context.Context, resourceID, label string, snap *capacity.Snapshot) error {
	blob, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("audit: encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (resource_id, label, blob, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(resource_id, label) DO UPDATE SET
			blob = excluded.blob,
			created_at = excluded.created_at`,
		resourceID, label, blob, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("audit: save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves the snapshot saved under (resourceID, label),
// or nil if none exists.
func (s *Store) LoadSnapshot(ctx context.Context, resourceID, label string) (*capacity.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT blob FROM snapshots WHERE resource_id = ? AND label = ?`,
		resourceID, label,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("audit: load snapshot: %w", err)
	}

	snap, err := capacity.DecodeSnapshot(blob)
	if err != nil {
		return nil, fmt.Errorf("audit: decode snapshot: %w", err)
	}
	return snap, nil
}
