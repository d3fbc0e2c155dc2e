package game

import (
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-gather/game/geom"
)

// BagItem is a collected item carried by a dog.
type BagItem struct {
	ID   int
	Type int
}

// Dog is a player's avatar. Dogs are owned by their GameSession.
type Dog struct {
	id               int
	name             string
	position         geom.Vec2
	velocity         geom.Vec2
	direction        Direction
	bag              []BagItem
	score            int
	afk              time.Duration
	playTime         time.Duration
	directionChanged bool
}

// DogState is a copy of everything that describes a dog.
type DogState struct {
	ID        int
	Name      string
	Position  geom.Vec2
	Velocity  geom.Vec2
	Direction Direction
	Bag       []BagItem
	Score     int
	AFK       time.Duration
	PlayTime  time.Duration

	DirectionChanged bool // Steered since the last tick
}

func newDog(id int, name string, pos geom.Vec2) *Dog {
	return &Dog{id: id, name: name, position: pos, direction: North}
}

func restoreDog(s DogState) *Dog {
	return &Dog{
		id:        s.ID,
		name:      s.Name,
		position:  s.Position,
		velocity:  s.Velocity,
		direction: s.Direction,
		bag:       slices.Clone(s.Bag),
		score:     s.Score,
		afk:       s.AFK,
		playTime:  s.PlayTime,

		directionChanged: s.DirectionChanged,
	}
}

func (d *Dog) ID() int                 { return d.id }
func (d *Dog) Name() string            { return d.name }
func (d *Dog) Position() geom.Vec2     { return d.position }
func (d *Dog) Velocity() geom.Vec2     { return d.velocity }
func (d *Dog) Direction() Direction    { return d.direction }
func (d *Dog) Score() int              { return d.score }
func (d *Dog) AFK() time.Duration      { return d.afk }
func (d *Dog) PlayTime() time.Duration { return d.playTime }
func (d *Dog) BagLen() int             { return len(d.bag) }

// Bag returns a copy of the dog's bag, nil when it is empty.
func (d *Dog) Bag() []BagItem {
	if len(d.bag) == 0 {
		return nil
	}
	return slices.Clone(d.bag)
}

// State returns a snapshot of the dog.
func (d *Dog) State() DogState {
	return DogState{
		ID:        d.id,
		Name:      d.name,
		Position:  d.position,
		Velocity:  d.velocity,
		Direction: d.direction,
		Bag:       d.Bag(),
		Score:     d.score,
		AFK:       d.afk,
		PlayTime:  d.playTime,

		DirectionChanged: d.directionChanged,
	}
}

// Steer turns the dog towards dir and sets its velocity for the given speed.
// None stops the dog.
func (d *Dog) Steer(dir Direction, speed float64) {
	if dir != d.direction {
		d.directionChanged = true
	}
	d.direction = dir
	d.velocity = dir.Velocity(speed)
}

// putInBag adds an item unless the bag already holds capacity items.
func (d *Dog) putInBag(item BagItem, capacity int) bool {
	if len(d.bag) >= capacity {
		return false
	}
	d.bag = append(d.bag, item)
	return true
}

// depositBag scores every carried item and empties the bag.
func (d *Dog) depositBag(value func(typ int) int) {
	for _, item := range d.bag {
		d.score += value(item.Type)
	}
	d.bag = nil
}
