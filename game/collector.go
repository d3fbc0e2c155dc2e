package game

import (
	"github.com/beka-birhanu/vinom-gather/game/collision"
)

// Collection widths. Offices are hit tested with the dog width only.
const (
	dogWidth    = 0.6
	officeWidth = 0.5
)

// collectObjects resolves the gathering events of one tick on one map and
// returns the loot left on the map.
//
// Item and office events are merged in time order. On equal times the item
// is picked up first, so a dog can deposit what it grabbed on the same tick.
func collectObjects(m *Map, s *GameSession, objects []LostObject, moves []Move) []LostObject {
	gatherers := make([]collision.Gatherer, 0, len(moves))
	dogs := make([]*Dog, 0, len(moves))
	for _, mv := range moves {
		d, ok := s.FindDog(mv.DogID)
		if !ok {
			continue
		}
		gatherers = append(gatherers, collision.Gatherer{Start: mv.Start, End: mv.End, Width: dogWidth})
		dogs = append(dogs, d)
	}

	items := make([]collision.Item, 0, len(objects))
	for _, obj := range objects {
		items = append(items, collision.Item{Position: obj.Position})
	}
	offices := make([]collision.Item, 0, len(m.offices))
	for _, o := range m.offices {
		offices = append(offices, collision.Item{Position: o.Position.Vec2(), Width: officeWidth})
	}

	itemEvents := collision.FindGatherEvents(items, gatherers)
	officeEvents := collision.FindGatherEvents(offices, gatherers)

	collected := make(map[int]struct{})
	i, j := 0, 0
	for i < len(itemEvents) || j < len(officeEvents) {
		if i < len(itemEvents) && (j >= len(officeEvents) || itemEvents[i].Time <= officeEvents[j].Time) {
			e := itemEvents[i]
			i++
			if _, taken := collected[e.ItemID]; taken {
				continue
			}
			obj := objects[e.ItemID]
			if dogs[e.GathererID].putInBag(BagItem{ID: obj.ID, Type: obj.Type}, m.bagCapacity) {
				collected[e.ItemID] = struct{}{}
			}
			continue
		}

		e := officeEvents[j]
		j++
		dogs[e.GathererID].depositBag(m.LootValue)
	}

	if len(collected) == 0 {
		return objects
	}
	remaining := make([]LostObject, 0, len(objects)-len(collected))
	for idx, obj := range objects {
		if _, taken := collected[idx]; !taken {
			remaining = append(remaining, obj)
		}
	}
	return remaining
}
