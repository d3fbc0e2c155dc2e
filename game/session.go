package game

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-gather/game/geom"
)

// Move is the displacement a dog wanted to make during one tick. End is the
// desired end before clipping to the roads.
type Move struct {
	DogID int
	Start geom.Vec2
	End   geom.Vec2
}

// GameSession holds the dogs currently playing on one map.
type GameSession struct {
	m           *Map
	dogs        map[int]*Dog
	randomSpawn bool
	rng         *rand.Rand
}

func newGameSession(m *Map, randomSpawn bool, rng *rand.Rand) *GameSession {
	return &GameSession{
		m:           m,
		dogs:        make(map[int]*Dog),
		randomSpawn: randomSpawn,
		rng:         rng,
	}
}

// Map returns the map the session is played on.
func (s *GameSession) Map() *Map { return s.m }

// MapID returns the id of the session's map.
func (s *GameSession) MapID() string { return s.m.id }

// DogCount returns the number of dogs in the session.
func (s *GameSession) DogCount() int { return len(s.dogs) }

// FindDog returns the dog with the given id.
func (s *GameSession) FindDog(id int) (*Dog, bool) {
	d, ok := s.dogs[id]
	return d, ok
}

// Dogs returns the session's dogs ordered by id.
func (s *GameSession) Dogs() []*Dog {
	ids := slices.Sorted(maps.Keys(s.dogs))
	dogs := make([]*Dog, 0, len(ids))
	for _, id := range ids {
		dogs = append(dogs, s.dogs[id])
	}
	return dogs
}

// addDog places a new dog on the map, on a random road point when random
// spawning is enabled and at the map's start point otherwise.
func (s *GameSession) addDog(id int, name string) (*Dog, error) {
	if _, ok := s.dogs[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateDog, id)
	}

	pos := s.m.StartPoint()
	if s.randomSpawn {
		pos = s.m.RandomPoint(s.rng)
	}
	d := newDog(id, name, pos)
	s.dogs[id] = d
	return d, nil
}

func (s *GameSession) restoreDog(state DogState) error {
	if _, ok := s.dogs[state.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateDog, state.ID)
	}
	s.dogs[state.ID] = restoreDog(state)
	return nil
}

func (s *GameSession) removeDog(id int) (*Dog, bool) {
	d, ok := s.dogs[id]
	if ok {
		delete(s.dogs, id)
	}
	return d, ok
}

// Advance moves every dog by its velocity over dt, clipped to the roads.
// A dog whose move was clipped stops. Dogs that neither moved nor turned
// accumulate AFK time. A zero dt leaves every dog untouched.
// The returned moves are ordered by dog id.
func (s *GameSession) Advance(dt time.Duration) []Move {
	seconds := dt.Seconds()
	dogs := s.Dogs()
	moves := make([]Move, 0, len(dogs))

	for _, d := range dogs {
		start := d.position
		if dt <= 0 {
			moves = append(moves, Move{DogID: d.id, Start: start, End: start})
			continue
		}

		desired := start.Add(d.velocity.Scale(seconds))

		next := s.m.CanGoToPoint(start, desired, d.direction)
		d.position = next
		if next != desired {
			d.velocity = geom.Vec2{}
		}

		if next == start && !d.directionChanged {
			d.afk += dt
		} else {
			d.afk = 0
		}
		d.playTime += dt
		d.directionChanged = false

		moves = append(moves, Move{DogID: d.id, Start: start, End: desired})
	}
	return moves
}
