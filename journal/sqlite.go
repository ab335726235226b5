// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/luxfi/fhe16/events"
)

//go:embed schema.sql
var schemaSQL string

var (
	_ Journal = (*SQLite)(nil)
	_ Unit    = (*sqliteUnit)(nil)
)

// SQLite is a durable journal backed by a SQLite database. Each atomic unit
// maps to one SQL transaction, so unit atomicity and contiguous replay order
// come from the database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a journal database at the given path.
//
// The database is configured with WAL mode for concurrent reads during
// writes, NORMAL synchronous mode, a 5-second busy timeout, and foreign key
// enforcement. SQLite supports one writer at a time, so the connection pool
// is limited to a single connection.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Begin opens a new atomic unit as a SQL transaction
func (s *SQLite) Begin() (Unit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit: %w", err)
	}

	res, err := tx.Exec("INSERT INTO units DEFAULT VALUES")
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to allocate unit: %w", err)
	}
	unitID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read unit id: %w", err)
	}

	return &sqliteUnit{tx: tx, id: uint64(unitID)}, nil
}

// Entries returns every committed record in log order
func (s *SQLite) Entries() ([]Entry, error) {
	rows, err := s.db.Query("SELECT seq, unit_id, payload FROM records ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			seq     uint64
			unitID  uint64
			payload []byte
		)
		if err := rows.Scan(&seq, &unitID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		ev, err := events.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to parse record %d: %w", seq, err)
		}

		entries = append(entries, Entry{Seq: seq, Unit: unitID, Event: ev})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return entries, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// sqliteUnit wraps one SQL transaction
type sqliteUnit struct {
	tx     *sql.Tx
	id     uint64
	closed bool
}

// Emit appends a record to the unit
func (u *sqliteUnit) Emit(ev events.Event) error {
	if u.closed {
		return ErrUnitClosed
	}

	payload, err := events.Marshal(ev)
	if err != nil {
		return err
	}

	if _, err := u.tx.Exec(
		"INSERT INTO records (unit_id, payload) VALUES (?, ?)",
		u.id, payload,
	); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Commit persists every emitted record atomically and closes the unit
func (u *sqliteUnit) Commit() error {
	if u.closed {
		return ErrUnitClosed
	}
	u.closed = true
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit: %w", err)
	}
	return nil
}

// Abort discards every emitted record and closes the unit
func (u *sqliteUnit) Abort() error {
	if u.closed {
		return ErrUnitClosed
	}
	u.closed = true
	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to abort unit: %w", err)
	}
	return nil
}
