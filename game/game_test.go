package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/beka-birhanu/vinom-gather/game/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	records []Record
	err     error
}

func (s *recordingSaver) SaveRecords(_ context.Context, records []Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, records...)
	return nil
}

type countingListener struct {
	calls int
	total time.Duration
}

func (l *countingListener) OnTick(_ context.Context, dt time.Duration, _ *Game) error {
	l.calls++
	l.total += dt
	return nil
}

func TestGameMaps(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.AddMap(streetMap(t, 3)))

	err := g.AddMap(NewMap("street", "Again", 1, 3))
	assert.ErrorIs(t, err, ErrDuplicateMap)

	m, ok := g.FindMap("street")
	require.True(t, ok)
	assert.Equal(t, "Street", m.Name())
	_, ok = g.FindMap("nowhere")
	assert.False(t, ok)

	_, ok = g.FindSession("street")
	assert.False(t, ok)
	s1, err := g.FindOrCreateSession("street")
	require.NoError(t, err)
	s2, err := g.FindOrCreateSession("street")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	_, err = g.FindOrCreateSession("nowhere")
	assert.ErrorIs(t, err, ErrMapNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGameJoin(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.AddMap(streetMap(t, 3)))
	require.NoError(t, g.AddMap(NewMap("empty", "Empty", 1, 3)))

	p, err := g.Join("rex", "street")
	require.NoError(t, err)
	d, ok := p.Dog()
	require.True(t, ok)
	assert.Equal(t, geom.Vec2{}, d.Position())
	assert.Equal(t, North, d.Direction())

	_, err = g.Join("rex", "nowhere")
	assert.ErrorIs(t, err, ErrMapNotFound)
	_, err = g.Join("", "street")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = g.Join(strings.Repeat("a", MaxNameLength+1), "street")
	assert.ErrorIs(t, err, ErrNameTooLong)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = g.Join(strings.Repeat("é", MaxNameLength), "street")
	assert.NoError(t, err)
	_, err = g.Join("rex", "empty")
	assert.ErrorIs(t, err, ErrNoRoads)
}

func TestGameTick(t *testing.T) {
	ctx := context.Background()

	t.Run("dog walks east", func(t *testing.T) {
		g := newTestGame(t)
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)
		d, _ := p.Dog()
		d.Steer(East, 1)

		require.NoError(t, g.Tick(ctx, 5*time.Second))

		assert.Equal(t, geom.Vec2{X: 5}, d.Position())
		assert.Equal(t, geom.Vec2{X: 1}, d.Velocity())
	})

	t.Run("dog stops at the end of the road", func(t *testing.T) {
		g := newTestGame(t)
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		require.NoError(t, g.RestoreDog("street", DogState{
			ID: 0, Name: "rex", Position: geom.Vec2{X: 9.6}, Velocity: geom.Vec2{X: 1}, Direction: East,
		}))

		require.NoError(t, g.Tick(ctx, 2*time.Second))

		s, _ := g.FindSession("street")
		d, _ := s.FindDog(0)
		assert.InDelta(t, 10.4, d.Position().X, 1e-9)
		assert.Equal(t, geom.Vec2{}, d.Velocity())
	})

	t.Run("pick up and deposit on the same tick", func(t *testing.T) {
		g := newTestGame(t)
		m := streetMap(t, 1)
		require.NoError(t, m.AddOffice(Office{ID: "o0", Position: Point{X: 3}}))
		require.NoError(t, g.AddMap(m))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)
		require.NoError(t, g.RestoreLostObjects("street", []LostObject{{ID: 0, Type: 0, Position: geom.Vec2{X: 3}}}))
		d, _ := p.Dog()
		d.Steer(East, 10)

		require.NoError(t, g.Tick(ctx, time.Second))

		assert.Equal(t, 10, d.Score())
		assert.Zero(t, d.BagLen())
		assert.Empty(t, g.LostObjects("street"))
	})

	t.Run("idle dog retires into a record", func(t *testing.T) {
		saver := &recordingSaver{}
		g := newTestGame(t, WithRetirementTime(3*time.Second), WithRecordSaver(saver))
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)

		for range 2 {
			require.NoError(t, g.Tick(ctx, time.Second))
		}
		_, ok := g.Players().FindByToken(p.Token())
		require.True(t, ok)
		assert.Empty(t, saver.records)

		require.NoError(t, g.Tick(ctx, time.Second))

		_, ok = g.Players().FindByToken(p.Token())
		assert.False(t, ok)
		require.Len(t, saver.records, 1)
		assert.Equal(t, "rex", saver.records[0].Name)
		assert.Zero(t, saver.records[0].Score)
		assert.Equal(t, 3*time.Second, saver.records[0].PlayTime)
		assert.NotZero(t, saver.records[0].ID)
	})

	t.Run("zero retirement time retires on the next tick", func(t *testing.T) {
		saver := &recordingSaver{}
		g := newTestGame(t, WithRetirementTime(0), WithRecordSaver(saver))
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)
		d, _ := p.Dog()
		d.Steer(East, 1)

		require.NoError(t, g.Tick(ctx, time.Second))

		_, ok := g.Players().FindByToken(p.Token())
		assert.False(t, ok)
		require.Len(t, saver.records, 1)
		assert.Equal(t, "rex", saver.records[0].Name)
	})

	t.Run("retirement is final when saving fails", func(t *testing.T) {
		saveErr := errors.New("db down")
		listener := &countingListener{}
		g := newTestGame(t,
			WithRetirementTime(time.Second),
			WithRecordSaver(&recordingSaver{err: saveErr}),
			WithListener(listener),
		)
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)

		err = g.Tick(ctx, time.Second)

		assert.ErrorIs(t, err, saveErr)
		_, ok := g.Players().FindByToken(p.Token())
		assert.False(t, ok)
		assert.Equal(t, 1, listener.calls)
	})

	t.Run("listener sees every tick", func(t *testing.T) {
		listener := &countingListener{}
		g := newTestGame(t)
		g.SetListener(listener)
		require.NoError(t, g.AddMap(streetMap(t, 3)))

		require.NoError(t, g.Tick(ctx, 250*time.Millisecond))
		require.NoError(t, g.Tick(ctx, 750*time.Millisecond))

		assert.Equal(t, 2, listener.calls)
		assert.Equal(t, time.Second, listener.total)
	})

	t.Run("zero tick changes nothing", func(t *testing.T) {
		g := newTestGame(t, WithLootGenerator(func() loot.Generator {
			return loot.NewProbabilisticGenerator(time.Second, 1)
		}))
		m := streetMap(t, 3)
		require.NoError(t, m.AddOffice(Office{ID: "o0", Position: Point{X: 0}}))
		require.NoError(t, g.AddMap(m))
		p, err := g.Join("rex", "street")
		require.NoError(t, err)
		require.NoError(t, g.RestoreLostObjects("street", []LostObject{{ID: 0, Type: 1, Position: geom.Vec2{}}}))
		d, _ := p.Dog()
		d.Steer(East, 1)
		before := d.State()

		require.NoError(t, g.Tick(ctx, 0))

		assert.Equal(t, before, d.State())
		assert.Len(t, g.LostObjects("street"), 1)
	})

	t.Run("loot spawns for looters", func(t *testing.T) {
		g := newTestGame(t, WithLootGenerator(func() loot.Generator {
			return loot.NewProbabilisticGenerator(time.Second, 1)
		}))
		require.NoError(t, g.AddMap(streetMap(t, 3)))
		require.NoError(t, g.AddMap(func() *Map {
			m := NewMap("quiet", "Quiet", 1, 3)
			m.AddRoad(NewVerticalRoad(Point{}, 5))
			m.AddLootType(LootType{Name: "key", Value: 1})
			return m
		}()))
		for _, name := range []string{"rex", "fido"} {
			_, err := g.Join(name, "street")
			require.NoError(t, err)
		}

		require.NoError(t, g.Tick(ctx, time.Second))

		objects := g.LostObjects("street")
		require.Len(t, objects, 2)
		assert.Equal(t, 0, objects[0].ID)
		assert.Equal(t, 1, objects[1].ID)
		assert.Equal(t, 2, g.NextLootID())
		street, _ := g.FindMap("street")
		for _, obj := range objects {
			assert.True(t, street.Roads()[0].Contains(obj.Position))
			assert.Contains(t, []int{0, 1}, obj.Type)
		}
		assert.Empty(t, g.LostObjects("quiet"))
	})
}

func TestGameInvariants(t *testing.T) {
	ctx := context.Background()
	rng := testRand()
	g := New(
		WithRand(testRand()),
		WithRandomSpawn(true),
		WithRetirementTime(time.Hour),
		WithLootGenerator(func() loot.Generator { return loot.NewProbabilisticGenerator(500*time.Millisecond, 0.7) }),
	)

	town := NewMap("town", "Town", 3, 2)
	town.AddRoad(NewHorizontalRoad(Point{X: 0, Y: 0}, 40))
	town.AddRoad(NewVerticalRoad(Point{X: 40, Y: 0}, 30))
	town.AddRoad(NewHorizontalRoad(Point{X: 40, Y: 30}, 0))
	town.AddRoad(NewVerticalRoad(Point{X: 0, Y: 0}, 30))
	town.AddRoad(NewVerticalRoad(Point{X: 20, Y: 0}, 30))
	town.AddLootType(LootType{Name: "key", Value: 10})
	town.AddLootType(LootType{Name: "wallet", Value: 20})
	require.NoError(t, town.AddOffice(Office{ID: "o0", Position: Point{X: 20, Y: 15}}))
	require.NoError(t, g.AddMap(town))

	var players []*Player
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		p, err := g.Join(name, "town")
		require.NoError(t, err)
		players = append(players, p)
	}

	dirs := []Direction{North, South, West, East, None}
	for range 500 {
		for _, p := range players {
			if rng.IntN(4) == 0 {
				d, _ := p.Dog()
				d.Steer(dirs[rng.IntN(len(dirs))], town.DogSpeed())
			}
		}
		require.NoError(t, g.Tick(ctx, time.Duration(rng.IntN(400))*time.Millisecond))

		for _, p := range players {
			d, _ := p.Dog()
			require.LessOrEqual(t, d.BagLen(), town.BagCapacity())
			onRoad := false
			for _, r := range town.Roads() {
				onRoad = onRoad || r.Contains(d.Position())
			}
			require.True(t, onRoad, "dog %d left the roads at %v", d.ID(), d.Position())
		}
	}
}
