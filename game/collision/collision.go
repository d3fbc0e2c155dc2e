// Package collision detects when moving gatherers pass close enough to static
// points to collect them during a tick.
package collision

import (
	"slices"

	"github.com/beka-birhanu/vinom-gather/game/geom"
)

// Item is a static point that can be collected.
type Item struct {
	Position geom.Vec2
	Width    float64 // Not used by the hit test, only the gatherer width is.
}

// Gatherer is a moving entity travelling from Start to End during one tick.
type Gatherer struct {
	Start geom.Vec2
	End   geom.Vec2
	Width float64
}

// CollectionResult describes the closest approach of a point to a movement line.
type CollectionResult struct {
	SqDistance float64 // Squared perpendicular distance to the line through A,B.
	ProjRatio  float64 // Position of the closest approach as a fraction of A->B.
}

// IsCollected reports whether the point is within radius of the travelled
// segment. The closest approach must lie on the segment itself.
func (r CollectionResult) IsCollected(radius float64) bool {
	return r.ProjRatio >= 0 && r.ProjRatio <= 1 && r.SqDistance <= radius*radius
}

// GatheringEvent is a single collection found during a tick.
type GatheringEvent struct {
	ItemID     int
	GathererID int
	SqDistance float64
	Time       float64
}

// TryCollectPoint projects c onto the line through a and b.
// a and b must differ, callers filter out zero-length movements.
func TryCollectPoint(a, b, c geom.Vec2) CollectionResult {
	u := c.Sub(a)
	v := b.Sub(a)
	uDotV := u.Dot(v)
	vLen2 := v.LenSq()

	return CollectionResult{
		SqDistance: u.LenSq() - (uDotV*uDotV)/vLen2,
		ProjRatio:  uDotV / vLen2,
	}
}

// FindGatherEvents tests every (item, gatherer) pair and returns the hits
// ordered by time. Ties keep discovery order: items outer, gatherers inner.
func FindGatherEvents(items []Item, gatherers []Gatherer) []GatheringEvent {
	var events []GatheringEvent
	for itemID, item := range items {
		for gathererID, g := range gatherers {
			if g.Start == g.End {
				continue
			}

			res := TryCollectPoint(g.Start, g.End, item.Position)
			if res.IsCollected(g.Width) {
				events = append(events, GatheringEvent{
					ItemID:     itemID,
					GathererID: gathererID,
					SqDistance: res.SqDistance,
					Time:       res.ProjRatio,
				})
			}
		}
	}

	slices.SortStableFunc(events, func(a, b GatheringEvent) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return events
}
