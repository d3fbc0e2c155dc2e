package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRecordRepo keeps records in PostgreSQL.
// Implements i.RecordRepo.
type PostgresRecordRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRecordRepo connects to PostgreSQL with a pool of at most
// maxConns connections and applies the schema migrations.
func NewPostgresRecordRepo(ctx context.Context, dsn string, maxConns int) (*PostgresRecordRepo, error) {
	if err := RunPostgresMigrations(ctx, dsn); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresRecordRepo{pool: pool}, nil
}

// RunPostgresMigrations runs goose migrations on the given DSN.
func RunPostgresMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, "postgres", "postgres")
}

// Close closes the connection pool.
func (r *PostgresRecordRepo) Close() {
	r.pool.Close()
}

// SaveRecords inserts every record in one transaction.
func (r *PostgresRecordRepo) SaveRecords(ctx context.Context, records []game.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{rec.ID, rec.Name, rec.Score, rec.PlayTime.Milliseconds()})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"retired_players"},
		[]string{"id", "name", "score", "play_time_ms"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting %d records: %w", len(records), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetRecords returns up to limit records starting at start, best first.
func (r *PostgresRecordRepo) GetRecords(ctx context.Context, start, limit int) ([]game.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, score, play_time_ms FROM retired_players
		 ORDER BY score DESC, play_time_ms, name
		 LIMIT $1 OFFSET $2`,
		limit, start,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []game.Record
	for rows.Next() {
		var rec game.Record
		var playTime int64
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Score, &playTime); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.PlayTime = fromMillis(playTime)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
