package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/beka-birhanu/vinom-gather/game"
)

// ErrNotFound is returned by a Store that holds no snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// Store keeps the latest snapshot blob.
type Store interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error

	// Load returns the stored snapshot, or ErrNotFound when none was saved.
	Load(ctx context.Context) ([]byte, error)
}

// Listener saves the game to a store every period of game time.
// Implements game.Listener.
type Listener struct {
	store   Store
	period  time.Duration
	elapsed time.Duration
	logger  *slog.Logger
}

// NewListener returns a listener saving to store every period. A zero
// period never saves on ticks, only on Save calls.
func NewListener(store Store, period time.Duration, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{store: store, period: period, logger: logger}
}

// OnTick implements game.Listener.
func (l *Listener) OnTick(ctx context.Context, dt time.Duration, g *game.Game) error {
	if l.period <= 0 {
		return nil
	}
	l.elapsed += dt
	if l.elapsed < l.period {
		return nil
	}
	l.elapsed = 0
	return l.Save(ctx, g)
}

// Save writes the current state of g to the store.
func (l *Listener) Save(ctx context.Context, g *game.Game) error {
	var buf bytes.Buffer
	if err := Serialize(&buf, g); err != nil {
		return fmt.Errorf("serializing game: %w", err)
	}
	if err := l.store.Save(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	l.logger.Debug("snapshot saved", "bytes", buf.Len(), "players", g.Players().Count())
	return nil
}

// Load restores g from the store. A store without a snapshot leaves g as is.
func Load(ctx context.Context, store Store, g *game.Game) (bool, error) {
	data, err := store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading snapshot: %w", err)
	}
	if err := Restore(bytes.NewReader(data), g); err != nil {
		return false, err
	}
	return true, nil
}
