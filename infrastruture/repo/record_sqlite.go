package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecordRepo keeps records in an embedded SQLite database.
// Implements i.RecordRepo.
type SQLiteRecordRepo struct {
	db *sql.DB
}

// NewSQLiteRecordRepo opens the database at path, creating it when missing.
// The path ":memory:" opens a private in-memory database.
func NewSQLiteRecordRepo(ctx context.Context, path string) (*SQLiteRecordRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := migrate(ctx, db, "sqlite3", "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRecordRepo{db: db}, nil
}

// Close closes the database.
func (r *SQLiteRecordRepo) Close() error {
	return r.db.Close()
}

// SaveRecords inserts every record in one transaction.
func (r *SQLiteRecordRepo) SaveRecords(ctx context.Context, records []game.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO retired_players (id, name, score, play_time_ms) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID.String(), rec.Name, rec.Score, rec.PlayTime.Milliseconds()); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetRecords returns up to limit records starting at start, best first.
func (r *SQLiteRecordRepo) GetRecords(ctx context.Context, start, limit int) ([]game.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, score, play_time_ms FROM retired_players
		 ORDER BY score DESC, play_time_ms, name
		 LIMIT ? OFFSET ?`,
		limit, start,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []game.Record
	for rows.Next() {
		var (
			rec      game.Record
			id       string
			playTime int64
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Score, &playTime); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing record id %q: %w", id, err)
		}
		rec.PlayTime = fromMillis(playTime)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
