package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/beka-birhanu/vinom-gather/service/i"
	"github.com/beka-birhanu/vinom-gather/snapshot"
)

const (
	// MaxRecords is the largest leaderboard page.
	MaxRecords = 100
)

var (
	ErrManualTickDisabled = errors.New("manual ticks are disabled while the game ticks on its own")
	ErrInvalidTimeDelta   = fmt.Errorf("%w: negative time delta", game.ErrInvalidArgument)
	ErrInvalidPage        = fmt.Errorf("%w: start must be >= 0 and max items between 0 and %d", game.ErrInvalidArgument, MaxRecords)
)

// Config holds the collaborators of a GameService.
type Config struct {
	Game       *game.Game
	Records    i.RecordRepo       // Optional leaderboard
	Snapshots  *snapshot.Listener // Optional, also saves on Shutdown
	TickPeriod time.Duration      // Zero disables the ticker and enables ManualTick
	Logger     *slog.Logger
}

// GameService is the only way into the game. Every call that touches game
// state holds the same lock, so requests and ticks never interleave.
type GameService struct {
	game       *game.Game
	records    i.RecordRepo
	snapshots  *snapshot.Listener
	tickPeriod time.Duration
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewGameService wires the record repo and the snapshot listener into the game.
func NewGameService(c *Config) (*GameService, error) {
	if c == nil || c.Game == nil {
		return nil, errors.New("game service needs a game")
	}
	if c.TickPeriod < 0 {
		return nil, fmt.Errorf("tick period %s is negative", c.TickPeriod)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &GameService{
		game:       c.Game,
		records:    c.Records,
		snapshots:  c.Snapshots,
		tickPeriod: c.TickPeriod,
		logger:     logger.With("component", "game_service"),
	}

	if c.Records != nil {
		s.game.SetRecordSaver(&loggingSaver{repo: c.Records, logger: s.logger})
	}
	if c.Snapshots != nil {
		s.game.SetListener(c.Snapshots)
	}
	return s, nil
}

// JoinResult identifies a newly joined player.
type JoinResult struct {
	Token    game.Token
	PlayerID int
}

// PlayerInfo names a player on a map.
type PlayerInfo struct {
	ID   int
	Name string
}

// DogInfo is the public state of a dog.
type DogInfo struct {
	ID        int
	Position  geom.Vec2
	Speed     geom.Vec2
	Direction string
	Bag       []game.BagItem
	Score     int
}

// SessionState is what a player sees of its map.
type SessionState struct {
	Dogs        []DogInfo
	LostObjects []game.LostObject
}

// MapSummary lists a map.
type MapSummary struct {
	ID   string
	Name string
}

// Join adds a player called name to the map mapID.
func (s *GameService) Join(name, mapID string) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.game.Join(name, mapID)
	if err != nil {
		return JoinResult{}, err
	}
	s.logger.Info("player joined", "player_id", p.ID(), "map_id", mapID)
	return JoinResult{Token: p.Token(), PlayerID: p.ID()}, nil
}

// Authorize reports whether token belongs to an active player.
func (s *GameService) Authorize(token game.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.game.Players().FindByToken(token)
	return ok
}

// Action steers the dog of the player holding token. move is one of U, D,
// L, R or empty to stop.
func (s *GameService) Action(token game.Token, move string) error {
	dir, err := game.ParseDirection(move)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.player(token)
	if err != nil {
		return err
	}
	d, ok := p.Dog()
	if !ok {
		return fmt.Errorf("%w: %d", game.ErrDogNotFound, p.DogID())
	}
	d.Steer(dir, p.Session().Map().DogSpeed())
	return nil
}

// Players lists the players sharing a map with the holder of token.
func (s *GameService) Players(token game.Token) ([]PlayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.player(token)
	if err != nil {
		return nil, err
	}
	var players []PlayerInfo
	for _, d := range p.Session().Dogs() {
		players = append(players, PlayerInfo{ID: d.ID(), Name: d.Name()})
	}
	return players, nil
}

// State returns the dogs and loot of the map the holder of token plays on.
func (s *GameService) State(token game.Token) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.player(token)
	if err != nil {
		return SessionState{}, err
	}

	var st SessionState
	for _, d := range p.Session().Dogs() {
		st.Dogs = append(st.Dogs, DogInfo{
			ID:        d.ID(),
			Position:  d.Position(),
			Speed:     d.Velocity(),
			Direction: d.Direction().String(),
			Bag:       d.Bag(),
			Score:     d.Score(),
		})
	}
	st.LostObjects = s.game.LostObjects(p.MapID())
	return st, nil
}

func (s *GameService) player(token game.Token) (*game.Player, error) {
	p, ok := s.game.Players().FindByToken(token)
	if !ok {
		return nil, game.ErrUnknownToken
	}
	return p, nil
}

// Maps lists every map.
func (s *GameService) Maps() []MapSummary {
	var maps []MapSummary
	for _, m := range s.game.Maps() {
		maps = append(maps, MapSummary{ID: m.ID(), Name: m.Name()})
	}
	return maps
}

// Map returns the map with the given id. Maps never change once the game is
// built, so they are read without the lock.
func (s *GameService) Map(id string) (*game.Map, error) {
	m, ok := s.game.FindMap(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrMapNotFound, id)
	}
	return m, nil
}

// ManualTickEnabled reports whether ticks are driven by clients.
func (s *GameService) ManualTickEnabled() bool {
	return s.tickPeriod == 0
}

// ManualTick advances the game by dt on a client's request.
func (s *GameService) ManualTick(ctx context.Context, dt time.Duration) error {
	if !s.ManualTickEnabled() {
		return ErrManualTickDisabled
	}
	return s.Tick(ctx, dt)
}

// Tick advances the game by dt.
func (s *GameService) Tick(ctx context.Context, dt time.Duration) error {
	if dt < 0 {
		return ErrInvalidTimeDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Tick(ctx, dt); err != nil {
		s.logger.Error("tick failed", "dt", dt, "error", err)
		return err
	}
	return nil
}

// Run ticks the game every tick period with the real time elapsed since the
// previous tick, until ctx is done. With a zero period it only waits.
func (s *GameService) Run(ctx context.Context) error {
	if s.tickPeriod == 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.tickPeriod)
	defer ticker.Stop()
	s.logger.Info("ticker started", "period", s.tickPeriod)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ticker stopped")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			// Failures are logged by Tick and the game keeps running.
			_ = s.Tick(ctx, dt)
		}
	}
}

// Shutdown saves a final snapshot when snapshots are enabled.
func (s *GameService) Shutdown(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshots.Save(ctx, s.game); err != nil {
		return fmt.Errorf("final snapshot: %w", err)
	}
	s.logger.Info("final snapshot saved", "players", s.game.Players().Count())
	return nil
}

// Records returns a page of the leaderboard. It never takes the game lock.
func (s *GameService) Records(ctx context.Context, start, limit int) ([]game.Record, error) {
	if start < 0 || limit < 0 || limit > MaxRecords {
		return nil, ErrInvalidPage
	}
	if s.records == nil || limit == 0 {
		return nil, nil
	}

	records, err := s.records.GetRecords(ctx, start, limit)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// loggingSaver reports retirements before saving their records.
type loggingSaver struct {
	repo   i.RecordRepo
	logger *slog.Logger
}

func (l *loggingSaver) SaveRecords(ctx context.Context, records []game.Record) error {
	for _, r := range records {
		l.logger.Info("player retired", "name", r.Name, "score", r.Score, "play_time", r.PlayTime)
	}
	return l.repo.SaveRecords(ctx, records)
}
