package game

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayers(t *testing.T) {
	t.Run("add and find", func(t *testing.T) {
		ps := NewPlayers(&seqTokens{})
		s := newGameSession(streetMap(t, 3), false, testRand())

		p0, err := ps.AddPlayer("rex", s)
		require.NoError(t, err)
		p1, err := ps.AddPlayer("fido", s)
		require.NoError(t, err)

		assert.Equal(t, 0, p0.ID())
		assert.Equal(t, 1, p1.ID())
		assert.Equal(t, p1.ID(), p1.DogID())
		assert.Equal(t, "street", p1.MapID())
		assert.Equal(t, 2, ps.Count())
		assert.Equal(t, 2, ps.NextID())

		got, ok := ps.FindByToken(p1.Token())
		require.True(t, ok)
		assert.Same(t, p1, got)

		got, ok = ps.FindByMapAndDogID("street", p0.DogID())
		require.True(t, ok)
		assert.Same(t, p0, got)

		_, ok = ps.FindByToken("missing")
		assert.False(t, ok)
		_, ok = ps.FindByMapAndDogID("other", 0)
		assert.False(t, ok)

		d, ok := p0.Dog()
		require.True(t, ok)
		assert.Equal(t, "rex", d.Name())
	})

	t.Run("empty name", func(t *testing.T) {
		ps := NewPlayers(&seqTokens{})
		_, err := ps.AddPlayer("", newGameSession(streetMap(t, 3), false, testRand()))
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("long name", func(t *testing.T) {
		ps := NewPlayers(&seqTokens{})
		s := newGameSession(streetMap(t, 3), false, testRand())
		_, err := ps.AddPlayer(strings.Repeat("x", MaxNameLength+1), s)
		assert.ErrorIs(t, err, ErrNameTooLong)
		assert.Zero(t, ps.Count())
		assert.Zero(t, s.DogCount())
	})

	t.Run("colliding tokens", func(t *testing.T) {
		ps := NewPlayers(fixedTokens("0123456789abcdef0123456789abcdef"))
		s := newGameSession(streetMap(t, 3), false, testRand())

		_, err := ps.AddPlayer("rex", s)
		require.NoError(t, err)
		_, err = ps.AddPlayer("fido", s)
		assert.ErrorIs(t, err, ErrTokenExhausted)
		assert.Equal(t, 1, ps.Count())
		assert.Equal(t, 1, s.DogCount())
	})

	t.Run("default tokens are 32 hex digits", func(t *testing.T) {
		ts := rngTokens{rng: testRand()}
		hex := regexp.MustCompile(`^[0-9a-f]{32}$`)
		for range 20 {
			assert.Regexp(t, hex, ts.NewToken())
		}
	})
}

func TestEraseRetiredPlayers(t *testing.T) {
	ps := NewPlayers(&seqTokens{})
	s := newGameSession(streetMap(t, 3), false, testRand())

	idle, err := ps.AddPlayer("sleepy", s)
	require.NoError(t, err)
	s.Advance(2 * time.Second)

	busy, err := ps.AddPlayer("busy", s)
	require.NoError(t, err)
	d, _ := busy.Dog()
	d.Steer(East, 1)
	s.Advance(2 * time.Second)

	retired := ps.EraseRetiredPlayers(3 * time.Second)

	require.Len(t, retired["street"], 1)
	assert.Equal(t, "sleepy", retired["street"][0].Name)
	assert.Equal(t, 4*time.Second, retired["street"][0].PlayTime)

	_, ok := ps.FindByToken(idle.Token())
	assert.False(t, ok)
	_, ok = ps.FindByMapAndDogID("street", idle.DogID())
	assert.False(t, ok)
	_, ok = s.FindDog(idle.DogID())
	assert.False(t, ok)

	_, ok = ps.FindByToken(busy.Token())
	assert.True(t, ok)
	assert.Equal(t, []*Player{busy}, ps.All())
}
