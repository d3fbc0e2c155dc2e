// Package game simulates dogs gathering lost items on road maps and bringing
// them back to offices. Nothing in this package locks: callers must serialize
// every call into a Game.
package game

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-gather/game/loot"
	"github.com/google/uuid"
)

// DefaultRetirementTime is how long a dog may stay AFK before it retires.
const DefaultRetirementTime = 60 * time.Second

// Listener is notified at the end of every tick with the full game state.
type Listener interface {
	OnTick(ctx context.Context, dt time.Duration, g *Game) error
}

// RecordSaver persists leaderboard records of retired dogs.
type RecordSaver interface {
	SaveRecords(ctx context.Context, records []Record) error
}

// GeneratorFactory returns the loot generator of a newly added map.
type GeneratorFactory func() loot.Generator

// Game owns every map, session, player and item of a running server.
type Game struct {
	maps         []*Map
	mapIndex     map[string]int
	sessions     map[string]*GameSession
	loot         map[string]*lootField
	nextLootID   int
	players      *Players
	rng          *rand.Rand
	randomSpawn  bool
	retirement   time.Duration
	newGenerator GeneratorFactory
	saver        RecordSaver
	listener     Listener
	tokens       TokenSource
}

// Option configures a Game.
type Option func(*Game)

// WithRand replaces the random source used for spawning dogs and loot.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithRandomSpawn places new dogs on random road points.
func WithRandomSpawn(enabled bool) Option {
	return func(g *Game) { g.randomSpawn = enabled }
}

// WithRetirementTime sets the AFK time after which a dog retires.
// Zero retires every dog on the next tick.
func WithRetirementTime(d time.Duration) Option {
	return func(g *Game) { g.retirement = max(d, 0) }
}

// WithLootGenerator sets the factory building one generator per map.
func WithLootGenerator(f GeneratorFactory) Option {
	return func(g *Game) { g.newGenerator = f }
}

// WithRecordSaver sets where records of retired dogs are saved.
func WithRecordSaver(s RecordSaver) Option {
	return func(g *Game) { g.saver = s }
}

// WithListener sets the end-of-tick listener.
func WithListener(l Listener) Option {
	return func(g *Game) { g.listener = l }
}

// WithTokenSource replaces the source of player tokens.
func WithTokenSource(ts TokenSource) Option {
	return func(g *Game) { g.tokens = ts }
}

// New returns a game without maps.
func New(opts ...Option) *Game {
	g := &Game{
		mapIndex:   make(map[string]int),
		sessions:   make(map[string]*GameSession),
		loot:       make(map[string]*lootField),
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		retirement: DefaultRetirementTime,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.tokens == nil {
		g.tokens = rngTokens{rng: g.rng}
	}
	g.players = NewPlayers(g.tokens)
	return g
}

// SetListener replaces the end-of-tick listener. Nil removes it.
func (g *Game) SetListener(l Listener) { g.listener = l }

// SetRecordSaver replaces the saver of retired dogs' records. Nil removes it.
func (g *Game) SetRecordSaver(s RecordSaver) { g.saver = s }

// RetirementTime returns the AFK threshold of retirement.
func (g *Game) RetirementTime() time.Duration { return g.retirement }

// Players returns the player registry.
func (g *Game) Players() *Players { return g.players }

// AddMap registers m. Map ids must be unique.
func (g *Game) AddMap(m *Map) error {
	if _, ok := g.mapIndex[m.id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMap, m.id)
	}
	g.mapIndex[m.id] = len(g.maps)
	g.maps = append(g.maps, m)

	f := &lootField{}
	if g.newGenerator != nil {
		f.generator = g.newGenerator()
	}
	g.loot[m.id] = f
	return nil
}

// Maps returns the maps in the order they were added.
func (g *Game) Maps() []*Map { return g.maps }

// FindMap returns the map with the given id.
func (g *Game) FindMap(id string) (*Map, bool) {
	idx, ok := g.mapIndex[id]
	if !ok {
		return nil, false
	}
	return g.maps[idx], true
}

// FindSession returns the session of a map if one has been created.
func (g *Game) FindSession(mapID string) (*GameSession, bool) {
	s, ok := g.sessions[mapID]
	return s, ok
}

// FindOrCreateSession returns the session of a map, creating it on first use.
func (g *Game) FindOrCreateSession(mapID string) (*GameSession, error) {
	if s, ok := g.sessions[mapID]; ok {
		return s, nil
	}
	m, ok := g.FindMap(mapID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMapNotFound, mapID)
	}
	s := newGameSession(m, g.randomSpawn, g.rng)
	g.sessions[mapID] = s
	return s, nil
}

// Sessions returns every session ordered by map id.
func (g *Game) Sessions() []*GameSession {
	ids := slices.Sorted(maps.Keys(g.sessions))
	sessions := make([]*GameSession, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, g.sessions[id])
	}
	return sessions
}

// Join adds a player named name to the map mapID.
func (g *Game) Join(name, mapID string) (*Player, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	m, ok := g.FindMap(mapID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMapNotFound, mapID)
	}
	if len(m.roads) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRoads, mapID)
	}

	s, err := g.FindOrCreateSession(mapID)
	if err != nil {
		return nil, err
	}
	return g.players.AddPlayer(name, s)
}

// LostObjects returns a copy of the loot lying on a map.
func (g *Game) LostObjects(mapID string) []LostObject {
	f, ok := g.loot[mapID]
	if !ok {
		return nil
	}
	return slices.Clone(f.objects)
}

// NextLootID returns the id the next spawned item will get.
func (g *Game) NextLootID() int { return g.nextLootID }

// Tick advances the simulation by dt.
//
// Dogs move first, then loot spawns, then items are gathered and bags are
// deposited, then idle dogs retire. Retirement is final: records that fail
// to save are lost, and the error is returned after the listener has run.
func (g *Game) Tick(ctx context.Context, dt time.Duration) error {
	moves := make(map[string][]Move, len(g.sessions))
	for id, s := range g.sessions {
		moves[id] = s.Advance(dt)
	}

	for _, m := range g.maps {
		looters := 0
		if s, ok := g.sessions[m.id]; ok {
			looters = s.DogCount()
		}
		g.spawnLoot(m, g.loot[m.id], looters, dt)
	}

	for id, s := range g.sessions {
		f := g.loot[id]
		f.objects = collectObjects(s.m, s, f.objects, moves[id])
	}

	var errs []error
	if records := g.retire(); len(records) > 0 && g.saver != nil {
		if err := g.saver.SaveRecords(ctx, records); err != nil {
			errs = append(errs, fmt.Errorf("saving %d records: %w", len(records), err))
		}
	}

	if g.listener != nil {
		if err := g.listener.OnTick(ctx, dt, g); err != nil {
			errs = append(errs, fmt.Errorf("tick listener: %w", err))
		}
	}
	return errors.Join(errs...)
}

// retire removes idle dogs and returns their records ordered by map id,
// then dog id.
func (g *Game) retire() []Record {
	retired := g.players.EraseRetiredPlayers(g.retirement)
	var records []Record
	for _, mapID := range slices.Sorted(maps.Keys(retired)) {
		for _, d := range retired[mapID] {
			records = append(records, Record{
				ID:       uuid.New(),
				Name:     d.Name,
				Score:    d.Score,
				PlayTime: d.PlayTime,
			})
		}
	}
	return records
}

// RestoreDog puts a saved dog back into the session of mapID.
func (g *Game) RestoreDog(mapID string, state DogState) error {
	s, err := g.FindOrCreateSession(mapID)
	if err != nil {
		return err
	}
	return s.restoreDog(state)
}

// RestorePlayer registers a saved player for a dog already restored.
func (g *Game) RestorePlayer(state PlayerState) error {
	s, ok := g.FindSession(state.MapID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, state.MapID)
	}
	return g.players.restore(state.ID, s, state.DogID, state.Token)
}

// RestoreLostObjects replaces the loot lying on mapID.
func (g *Game) RestoreLostObjects(mapID string, objects []LostObject) error {
	f, ok := g.loot[mapID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMapNotFound, mapID)
	}
	f.objects = slices.Clone(objects)
	for _, obj := range objects {
		g.nextLootID = max(g.nextLootID, obj.ID+1)
	}
	return nil
}

// SetNextIDs raises the player and loot id counters. Counters never go
// backwards so ids stay unique after a restore.
func (g *Game) SetNextIDs(nextPlayerID, nextLootID int) {
	g.players.setNextID(nextPlayerID)
	g.nextLootID = max(g.nextLootID, nextLootID)
}
