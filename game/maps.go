package game

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/beka-birhanu/vinom-gather/game/geom"
)

// RoadHalfWidth is how far the navigable area extends around a road's axis.
const RoadHalfWidth = 0.4

// Point is an integer position from the map configuration.
type Point struct {
	X int
	Y int
}

// Vec2 returns p as a continuous position.
func (p Point) Vec2() geom.Vec2 {
	return geom.Vec2{X: float64(p.X), Y: float64(p.Y)}
}

// Road is an axis-aligned segment dogs can move along.
type Road struct {
	start Point
	end   Point
}

// NewHorizontalRoad returns a road from start to (endX, start.Y).
func NewHorizontalRoad(start Point, endX int) Road {
	return Road{start: start, end: Point{X: endX, Y: start.Y}}
}

// NewVerticalRoad returns a road from start to (start.X, endY).
func NewVerticalRoad(start Point, endY int) Road {
	return Road{start: start, end: Point{X: start.X, Y: endY}}
}

// Start returns the first end of the road.
func (r Road) Start() Point { return r.start }

// End returns the second end of the road.
func (r Road) End() Point { return r.end }

// IsHorizontal reports whether the road runs along the x axis.
func (r Road) IsHorizontal() bool { return r.start.Y == r.end.Y }

// IsVertical reports whether the road runs along the y axis.
func (r Road) IsVertical() bool { return r.start.X == r.end.X }

// Bounds returns the navigable rectangle of the road.
func (r Road) Bounds() (minX, minY, maxX, maxY float64) {
	minX = float64(min(r.start.X, r.end.X)) - RoadHalfWidth
	maxX = float64(max(r.start.X, r.end.X)) + RoadHalfWidth
	minY = float64(min(r.start.Y, r.end.Y)) - RoadHalfWidth
	maxY = float64(max(r.start.Y, r.end.Y)) + RoadHalfWidth
	return minX, minY, maxX, maxY
}

// Contains reports whether p lies in the navigable rectangle of the road.
func (r Road) Contains(p geom.Vec2) bool {
	minX, minY, maxX, maxY := r.Bounds()
	return minX <= p.X && p.X <= maxX && minY <= p.Y && p.Y <= maxY
}

// randomPoint samples a point uniformly along the road.
func (r Road) randomPoint(rng *rand.Rand) geom.Vec2 {
	return geom.Vec2{
		X: randomBetween(rng, r.start.X, r.end.X),
		Y: randomBetween(rng, r.start.Y, r.end.Y),
	}
}

func randomBetween(rng *rand.Rand, a, b int) float64 {
	if a == b {
		return float64(a)
	}
	lo, hi := float64(min(a, b)), float64(max(a, b))
	return lo + rng.Float64()*(hi-lo)
}

// Building is a display-only rectangle.
type Building struct {
	Position Point
	Width    int
	Height   int
}

// Office is where dogs deposit their bags.
type Office struct {
	ID       string
	Position Point
	Offset   Point
}

// LootType is a catalog entry for items spawned on a map.
type LootType struct {
	Name     string
	File     string
	Type     string
	Rotation *int
	Color    *string
	Scale    float64
	Value    int
}

// Map is the static configuration of one playing field.
type Map struct {
	id          string
	name        string
	dogSpeed    float64
	bagCapacity int
	roads       []Road
	buildings   []Building
	offices     []Office
	officeIndex map[string]int
	lootTypes   []LootType
}

// NewMap creates an empty map.
func NewMap(id, name string, dogSpeed float64, bagCapacity int) *Map {
	return &Map{
		id:          id,
		name:        name,
		dogSpeed:    dogSpeed,
		bagCapacity: bagCapacity,
		officeIndex: make(map[string]int),
	}
}

func (m *Map) ID() string              { return m.id }
func (m *Map) Name() string            { return m.name }
func (m *Map) DogSpeed() float64       { return m.dogSpeed }
func (m *Map) BagCapacity() int        { return m.bagCapacity }
func (m *Map) Roads() []Road           { return m.roads }
func (m *Map) Buildings() []Building   { return m.buildings }
func (m *Map) Offices() []Office       { return m.offices }
func (m *Map) LootTypes() []LootType   { return m.lootTypes }
func (m *Map) AddRoad(r Road)          { m.roads = append(m.roads, r) }
func (m *Map) AddBuilding(b Building)  { m.buildings = append(m.buildings, b) }
func (m *Map) AddLootType(lt LootType) { m.lootTypes = append(m.lootTypes, lt) }

// AddOffice adds an office, rejecting duplicate ids.
func (m *Map) AddOffice(o Office) error {
	if _, ok := m.officeIndex[o.ID]; ok {
		return fmt.Errorf("%w: %q on map %q", ErrDuplicateOffice, o.ID, m.id)
	}
	m.officeIndex[o.ID] = len(m.offices)
	m.offices = append(m.offices, o)
	return nil
}

// LootValue returns the score awarded for depositing an item of type typ.
func (m *Map) LootValue(typ int) int {
	if typ < 0 || typ >= len(m.lootTypes) {
		return 0
	}
	return m.lootTypes[typ].Value
}

// StartPoint is where dogs appear when random spawning is off.
func (m *Map) StartPoint() geom.Vec2 {
	if len(m.roads) == 0 {
		return geom.Vec2{}
	}
	return m.roads[0].start.Vec2()
}

// RandomPoint returns a point sampled uniformly along a uniformly chosen road.
func (m *Map) RandomPoint(rng *rand.Rand) geom.Vec2 {
	if len(m.roads) == 0 {
		return geom.Vec2{}
	}
	return m.roads[rng.IntN(len(m.roads))].randomPoint(rng)
}

// CanGoToPoint clips a move from a towards b in direction dir to the roads
// containing a. It returns b when some road contains both ends, otherwise the
// furthest point along dir that stays on the roads under a.
func (m *Map) CanGoToPoint(a, b geom.Vec2, dir Direction) geom.Vec2 {
	if a == b || dir == None {
		return a
	}

	var under []Road
	for _, r := range m.roads {
		if !r.Contains(a) {
			continue
		}
		if r.Contains(b) {
			return b
		}
		under = append(under, r)
	}
	if len(under) == 0 {
		return a
	}

	res := a
	switch dir {
	case North:
		res.Y = math.Inf(1)
		for _, r := range under {
			_, minY, _, _ := r.Bounds()
			res.Y = math.Min(res.Y, minY)
		}
	case South:
		res.Y = math.Inf(-1)
		for _, r := range under {
			_, _, _, maxY := r.Bounds()
			res.Y = math.Max(res.Y, maxY)
		}
	case West:
		res.X = math.Inf(1)
		for _, r := range under {
			minX, _, _, _ := r.Bounds()
			res.X = math.Min(res.X, minX)
		}
	case East:
		res.X = math.Inf(-1)
		for _, r := range under {
			_, _, maxX, _ := r.Bounds()
			res.X = math.Max(res.X, maxX)
		}
	}
	return res
}
