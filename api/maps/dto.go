package maps

import "github.com/beka-birhanu/vinom-gather/game"

// MapSummaryResponse lists a map.
type MapSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoadResponse is a road. Exactly one of X1 and Y1 is set.
type RoadResponse struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

// BuildingResponse is a display-only rectangle.
type BuildingResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// OfficeResponse is a deposit point.
type OfficeResponse struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

// LootTypeResponse is a catalog entry of a map.
type LootTypeResponse struct {
	Name     string  `json:"name"`
	File     string  `json:"file"`
	Type     string  `json:"type"`
	Rotation *int    `json:"rotation,omitempty"`
	Color    *string `json:"color,omitempty"`
	Scale    float64 `json:"scale"`
	Value    int     `json:"value"`
}

// MapResponse is the full description of a map.
type MapResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	DogSpeed    float64            `json:"dogSpeed"`
	BagCapacity int                `json:"bagCapacity"`
	Roads       []RoadResponse     `json:"roads"`
	Buildings   []BuildingResponse `json:"buildings"`
	Offices     []OfficeResponse   `json:"offices"`
	LootTypes   []LootTypeResponse `json:"lootTypes"`
}

func newMapResponse(m *game.Map) *MapResponse {
	res := &MapResponse{
		ID:          m.ID(),
		Name:        m.Name(),
		DogSpeed:    m.DogSpeed(),
		BagCapacity: m.BagCapacity(),
		Roads:       make([]RoadResponse, 0, len(m.Roads())),
		Buildings:   make([]BuildingResponse, 0, len(m.Buildings())),
		Offices:     make([]OfficeResponse, 0, len(m.Offices())),
		LootTypes:   make([]LootTypeResponse, 0, len(m.LootTypes())),
	}

	for _, r := range m.Roads() {
		start, end := r.Start(), r.End()
		road := RoadResponse{X0: start.X, Y0: start.Y}
		if r.IsHorizontal() {
			road.X1 = &end.X
		} else {
			road.Y1 = &end.Y
		}
		res.Roads = append(res.Roads, road)
	}
	for _, b := range m.Buildings() {
		res.Buildings = append(res.Buildings, BuildingResponse{
			X: b.Position.X, Y: b.Position.Y, W: b.Width, H: b.Height,
		})
	}
	for _, o := range m.Offices() {
		res.Offices = append(res.Offices, OfficeResponse{
			ID: o.ID, X: o.Position.X, Y: o.Position.Y, OffsetX: o.Offset.X, OffsetY: o.Offset.Y,
		})
	}
	for _, lt := range m.LootTypes() {
		res.LootTypes = append(res.LootTypes, LootTypeResponse{
			Name:     lt.Name,
			File:     lt.File,
			Type:     lt.Type,
			Rotation: lt.Rotation,
			Color:    lt.Color,
			Scale:    lt.Scale,
			Value:    lt.Value,
		})
	}
	return res
}
