package game

import (
	"testing"

	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		move     string
		want     Direction
		velocity geom.Vec2
	}{
		{"U", North, geom.Vec2{Y: -2}},
		{"D", South, geom.Vec2{Y: 2}},
		{"L", West, geom.Vec2{X: -2}},
		{"R", East, geom.Vec2{X: 2}},
		{"", None, geom.Vec2{}},
	}
	for _, tt := range tests {
		t.Run("move "+tt.move, func(t *testing.T) {
			dir, err := ParseDirection(tt.move)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, dir)
			assert.Equal(t, tt.move, dir.String())
			assert.Equal(t, tt.velocity, dir.Velocity(2))
		})
	}

	t.Run("unknown move", func(t *testing.T) {
		_, err := ParseDirection("X")
		assert.ErrorIs(t, err, ErrInvalidMove)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
