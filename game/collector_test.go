package game

import (
	"testing"

	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectObjects(t *testing.T) {
	move := []Move{{DogID: 0, Start: geom.Vec2{}, End: geom.Vec2{X: 10}}}

	setup := func(t *testing.T, capacity int, bag []BagItem, office Point) (*Map, *GameSession, *Dog) {
		t.Helper()
		m := streetMap(t, capacity)
		require.NoError(t, m.AddOffice(Office{ID: "o0", Position: office}))
		s := newGameSession(m, false, testRand())
		require.NoError(t, s.restoreDog(DogState{ID: 0, Name: "rex", Bag: bag}))
		d, _ := s.FindDog(0)
		return m, s, d
	}

	t.Run("item and office at the same time", func(t *testing.T) {
		m, s, d := setup(t, 1, nil, Point{X: 3})
		objects := []LostObject{{ID: 7, Type: 1, Position: geom.Vec2{X: 3}}}

		left := collectObjects(m, s, objects, move)

		assert.Empty(t, left)
		assert.Equal(t, 30, d.Score())
		assert.Nil(t, d.Bag())
	})

	t.Run("full bag skips items but still deposits", func(t *testing.T) {
		m, s, d := setup(t, 1, []BagItem{{ID: 99, Type: 0}}, Point{X: 6})
		objects := []LostObject{{ID: 7, Type: 1, Position: geom.Vec2{X: 3}}}

		left := collectObjects(m, s, objects, move)

		assert.Equal(t, objects, left)
		assert.Equal(t, 10, d.Score())
		assert.Nil(t, d.Bag())
	})

	t.Run("items after the office stay in the bag", func(t *testing.T) {
		m, s, d := setup(t, 3, nil, Point{X: 2})
		objects := []LostObject{
			{ID: 1, Type: 0, Position: geom.Vec2{X: 1}},
			{ID: 2, Type: 1, Position: geom.Vec2{X: 4, Y: 0.5}},
			{ID: 3, Type: 0, Position: geom.Vec2{X: 5, Y: 2}},
		}

		left := collectObjects(m, s, objects, move)

		assert.Equal(t, []LostObject{objects[2]}, left)
		assert.Equal(t, 10, d.Score())
		assert.Equal(t, []BagItem{{ID: 2, Type: 1}}, d.Bag())
	})

	t.Run("an item goes to the first dog reaching it", func(t *testing.T) {
		m := streetMap(t, 3)
		s := newGameSession(m, false, testRand())
		require.NoError(t, s.restoreDog(DogState{ID: 0, Name: "slow"}))
		require.NoError(t, s.restoreDog(DogState{ID: 1, Name: "fast", Position: geom.Vec2{X: 8}}))
		objects := []LostObject{{ID: 5, Type: 0, Position: geom.Vec2{X: 9}}}
		moves := []Move{
			{DogID: 0, Start: geom.Vec2{}, End: geom.Vec2{X: 10}},
			{DogID: 1, Start: geom.Vec2{X: 8}, End: geom.Vec2{X: 10}},
		}

		left := collectObjects(m, s, objects, moves)

		assert.Empty(t, left)
		slow, _ := s.FindDog(0)
		fast, _ := s.FindDog(1)
		assert.Zero(t, slow.BagLen())
		assert.Equal(t, []BagItem{{ID: 5, Type: 0}}, fast.Bag())
	})
}
