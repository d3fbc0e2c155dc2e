package game

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSessionAdvance(t *testing.T) {
	t.Run("dog moves along the road", func(t *testing.T) {
		s := newGameSession(streetMap(t, 3), false, testRand())
		require.NoError(t, s.restoreDog(DogState{
			ID: 0, Name: "rex", Velocity: geom.Vec2{X: 1}, Direction: East,
		}))

		moves := s.Advance(5 * time.Second)

		d, _ := s.FindDog(0)
		assert.Equal(t, geom.Vec2{X: 5}, d.Position())
		assert.Equal(t, geom.Vec2{X: 1}, d.Velocity())
		assert.Equal(t, []Move{{DogID: 0, Start: geom.Vec2{}, End: geom.Vec2{X: 5}}}, moves)
		assert.Zero(t, d.AFK())
		assert.Equal(t, 5*time.Second, d.PlayTime())
	})

	t.Run("clipped dog stops and reports the desired end", func(t *testing.T) {
		s := newGameSession(streetMap(t, 3), false, testRand())
		require.NoError(t, s.restoreDog(DogState{
			ID: 0, Name: "rex", Position: geom.Vec2{X: 9.6}, Velocity: geom.Vec2{X: 1}, Direction: East,
		}))

		moves := s.Advance(2 * time.Second)

		d, _ := s.FindDog(0)
		assert.InDelta(t, 10.4, d.Position().X, 1e-9)
		assert.Equal(t, geom.Vec2{}, d.Velocity())
		require.Len(t, moves, 1)
		assert.InDelta(t, 11.6, moves[0].End.X, 1e-9)
	})

	t.Run("idle dog accumulates afk time", func(t *testing.T) {
		s := newGameSession(streetMap(t, 3), false, testRand())
		d, err := s.addDog(0, "rex")
		require.NoError(t, err)

		s.Advance(time.Second)
		s.Advance(time.Second)
		assert.Equal(t, 2*time.Second, d.AFK())

		d.Steer(East, 0)
		s.Advance(time.Second)
		assert.Zero(t, d.AFK(), "turning resets afk time")

		s.Advance(time.Second)
		assert.Equal(t, time.Second, d.AFK())
		assert.Equal(t, 4*time.Second, d.PlayTime())
	})

	t.Run("zero tick changes nothing", func(t *testing.T) {
		s := newGameSession(streetMap(t, 3), false, testRand())
		d, err := s.addDog(0, "rex")
		require.NoError(t, err)
		s.Advance(time.Second)
		d.Steer(East, 1)
		before := d.State()

		moves := s.Advance(0)

		assert.Equal(t, before, d.State())
		assert.Equal(t, []Move{{DogID: 0, Start: before.Position, End: before.Position}}, moves)
	})

	t.Run("dogs are ordered by id", func(t *testing.T) {
		s := newGameSession(streetMap(t, 3), true, testRand())
		for _, id := range []int{4, 1, 3} {
			_, err := s.addDog(id, "dog")
			require.NoError(t, err)
		}
		_, err := s.addDog(3, "again")
		assert.ErrorIs(t, err, ErrDuplicateDog)

		var ids []int
		for _, d := range s.Dogs() {
			ids = append(ids, d.ID())
			assert.True(t, s.Map().Roads()[0].Contains(d.Position()))
		}
		assert.Equal(t, []int{1, 3, 4}, ids)
	})
}
