package game

import (
	"time"

	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/beka-birhanu/vinom-gather/game/loot"
)

// LostObject is an item lying on a map waiting to be collected.
type LostObject struct {
	ID       int
	Type     int
	Position geom.Vec2
}

// lootField is the loot currently lying on one map.
type lootField struct {
	objects   []LostObject
	generator loot.Generator
}

// spawnLoot asks the map's generator for new items and places them on
// random road points with random catalog types.
func (g *Game) spawnLoot(m *Map, f *lootField, looters int, dt time.Duration) {
	if f.generator == nil || len(m.lootTypes) == 0 || len(m.roads) == 0 {
		return
	}

	n := f.generator.Generate(dt, len(f.objects), looters)
	for range n {
		f.objects = append(f.objects, LostObject{
			ID:       g.nextLootID,
			Type:     g.rng.IntN(len(m.lootTypes)),
			Position: m.RandomPoint(g.rng),
		})
		g.nextLootID++
	}
}
