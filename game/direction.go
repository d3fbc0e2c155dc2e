package game

import (
	"fmt"

	"github.com/beka-birhanu/vinom-gather/game/geom"
)

// Direction is the compass direction a dog is facing.
type Direction uint8

// Directions. The zero value is North, which is how new dogs face.
const (
	North Direction = iota
	South
	West
	East
	None
)

// String returns the move code of the direction: U, D, L, R, or "" for None.
func (d Direction) String() string {
	switch d {
	case North:
		return "U"
	case South:
		return "D"
	case West:
		return "L"
	case East:
		return "R"
	}
	return ""
}

// ParseDirection parses a move code. The empty code means stop.
func ParseDirection(move string) (Direction, error) {
	switch move {
	case "U":
		return North, nil
	case "D":
		return South, nil
	case "L":
		return West, nil
	case "R":
		return East, nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidMove, move)
}

// Velocity returns the velocity of a dog moving in d at the given speed.
// Map y grows southwards.
func (d Direction) Velocity(speed float64) geom.Vec2 {
	switch d {
	case North:
		return geom.Vec2{Y: -speed}
	case South:
		return geom.Vec2{Y: speed}
	case West:
		return geom.Vec2{X: -speed}
	case East:
		return geom.Vec2{X: speed}
	}
	return geom.Vec2{}
}
