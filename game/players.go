package game

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the longest player name, in characters, that the
// leaderboard stores.
const MaxNameLength = 100

// maxTokenAttempts bounds how many times a colliding token is regenerated.
const maxTokenAttempts = 8

// ErrTokenExhausted is returned when no unused token could be generated.
var ErrTokenExhausted = errors.New("could not generate a unique player token")

// Token authenticates a player.
type Token string

// TokenSource produces 32 character lowercase hex tokens.
type TokenSource interface {
	NewToken() string
}

// rngTokens builds tokens from two 64-bit values of a random source.
type rngTokens struct {
	rng *rand.Rand
}

func (t rngTokens) NewToken() string {
	return fmt.Sprintf("%016x%016x", t.rng.Uint64(), t.rng.Uint64())
}

// Player binds a token to a dog in a game session. It never owns the dog:
// the dog lives in the session and is looked up by id.
type Player struct {
	id      int
	session *GameSession
	dogID   int
	token   Token
}

// PlayerState is a copy of everything that describes a player.
type PlayerState struct {
	ID    int
	MapID string
	DogID int
	Token Token
}

func (p *Player) ID() int                { return p.id }
func (p *Player) DogID() int             { return p.dogID }
func (p *Player) Token() Token           { return p.token }
func (p *Player) Session() *GameSession  { return p.session }
func (p *Player) MapID() string          { return p.session.MapID() }
func (p *Player) Dog() (*Dog, bool)      { return p.session.FindDog(p.dogID) }
func (p *Player) State() PlayerState {
	return PlayerState{ID: p.id, MapID: p.MapID(), DogID: p.dogID, Token: p.token}
}

// Players indexes active players by token and by (map, dog id). Both
// indexes are always updated together.
type Players struct {
	byToken map[Token]*Player
	byMap   map[string]map[int]*Player
	nextID  int
	tokens  TokenSource
}

// NewPlayers returns an empty registry drawing tokens from ts.
func NewPlayers(ts TokenSource) *Players {
	return &Players{
		byToken: make(map[Token]*Player),
		byMap:   make(map[string]map[int]*Player),
		tokens:  ts,
	}
}

// Count returns the number of active players.
func (ps *Players) Count() int { return len(ps.byToken) }

// NextID returns the id the next player will get.
func (ps *Players) NextID() int { return ps.nextID }

// AddPlayer creates a dog named name in session s and registers a player
// for it under a fresh token.
func (ps *Players) AddPlayer(name string, s *GameSession) (*Player, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	token, err := ps.freshToken()
	if err != nil {
		return nil, err
	}

	id := ps.nextID
	d, err := s.addDog(id, name)
	if err != nil {
		return nil, err
	}
	ps.nextID++

	p := &Player{id: id, session: s, dogID: d.ID(), token: token}
	ps.insert(p)
	return p, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (ps *Players) freshToken() (Token, error) {
	for range maxTokenAttempts {
		t := Token(ps.tokens.NewToken())
		if _, taken := ps.byToken[t]; !taken {
			return t, nil
		}
	}
	return "", ErrTokenExhausted
}

func (ps *Players) insert(p *Player) {
	ps.byToken[p.token] = p
	mapID := p.MapID()
	if ps.byMap[mapID] == nil {
		ps.byMap[mapID] = make(map[int]*Player)
	}
	ps.byMap[mapID][p.dogID] = p
}

func (ps *Players) remove(p *Player) {
	delete(ps.byToken, p.token)
	mapID := p.MapID()
	delete(ps.byMap[mapID], p.dogID)
	if len(ps.byMap[mapID]) == 0 {
		delete(ps.byMap, mapID)
	}
}

// FindByToken returns the player holding token t.
func (ps *Players) FindByToken(t Token) (*Player, bool) {
	p, ok := ps.byToken[t]
	return p, ok
}

// FindByMapAndDogID returns the player controlling dog dogID on map mapID.
func (ps *Players) FindByMapAndDogID(mapID string, dogID int) (*Player, bool) {
	p, ok := ps.byMap[mapID][dogID]
	return p, ok
}

// All returns every active player ordered by id.
func (ps *Players) All() []*Player {
	all := slices.Collect(maps.Values(ps.byToken))
	slices.SortFunc(all, func(a, b *Player) int { return a.id - b.id })
	return all
}

// EraseRetiredPlayers removes every player whose dog has been AFK for at
// least threshold. The removed dogs are returned grouped by map id, each
// group ordered by dog id.
func (ps *Players) EraseRetiredPlayers(threshold time.Duration) map[string][]DogState {
	retired := make(map[string][]DogState)
	for _, p := range ps.All() {
		d, ok := p.Dog()
		if ok && d.AFK() < threshold {
			continue
		}

		ps.remove(p)
		if !ok {
			continue
		}
		p.session.removeDog(d.ID())
		retired[p.MapID()] = append(retired[p.MapID()], d.State())
	}
	return retired
}

// restore registers a player for an existing dog.
func (ps *Players) restore(id int, s *GameSession, dogID int, token Token) error {
	if _, ok := s.FindDog(dogID); !ok {
		return fmt.Errorf("%w: %d on map %q", ErrDogNotFound, dogID, s.MapID())
	}
	if _, ok := ps.byToken[token]; ok {
		return ErrDuplicateToken
	}
	if _, ok := ps.FindByMapAndDogID(s.MapID(), dogID); ok {
		return fmt.Errorf("%w: %d already has a player", ErrDuplicateDog, dogID)
	}

	ps.insert(&Player{id: id, session: s, dogID: dogID, token: token})
	ps.nextID = max(ps.nextID, id+1, dogID+1)
	return nil
}

func (ps *Players) setNextID(n int) {
	ps.nextID = max(ps.nextID, n)
}
