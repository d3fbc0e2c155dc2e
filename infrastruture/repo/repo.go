// Package repo persists leaderboard records of retired dogs.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-gather/infrastruture/repo/migrations"
	"github.com/pressly/goose/v3"
)

// migrate applies the goose migrations under dir with the given dialect.
func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func fromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
