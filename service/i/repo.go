package i

import (
	"context"

	"github.com/beka-birhanu/vinom-gather/game"
)

// RecordRepo defines the interface for leaderboard persistence operations.
type RecordRepo interface {
	// SaveRecords appends a batch of records. Either every record of the
	// batch is saved or none is.
	SaveRecords(ctx context.Context, records []game.Record) error

	// GetRecords returns up to limit records starting at offset start,
	// ordered by score descending, then play time and name ascending.
	GetRecords(ctx context.Context, start, limit int) ([]game.Record, error)
}
