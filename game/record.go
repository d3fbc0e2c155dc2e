package game

import (
	"time"

	"github.com/google/uuid"
)

// Record is a leaderboard entry created when a dog retires.
type Record struct {
	ID       uuid.UUID
	Name     string
	Score    int
	PlayTime time.Duration
}
