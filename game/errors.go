package game

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps one of them.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Game-related errors.
var (
	ErrMapNotFound     = fmt.Errorf("map %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("game session %w", ErrNotFound)
	ErrUnknownToken    = fmt.Errorf("player token %w", ErrNotFound)
	ErrDogNotFound     = fmt.Errorf("dog %w", ErrNotFound)
	ErrDuplicateMap    = fmt.Errorf("%w: duplicate map id", ErrInvalidArgument)
	ErrDuplicateOffice = fmt.Errorf("%w: duplicate office id", ErrInvalidArgument)
	ErrDuplicateDog    = fmt.Errorf("%w: duplicate dog id", ErrInvalidArgument)
	ErrDuplicateToken  = fmt.Errorf("%w: duplicate player token", ErrInvalidArgument)
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrInvalidArgument)
	ErrNameTooLong     = fmt.Errorf("%w: name longer than %d characters", ErrInvalidArgument, MaxNameLength)
	ErrInvalidMove     = fmt.Errorf("%w: unknown move", ErrInvalidArgument)
	ErrNoRoads         = fmt.Errorf("%w: map has no roads", ErrInvalidArgument)
)
