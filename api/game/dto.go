// Package gameapi provides the requests and responses of the running game.
package gameapi

import (
	"strconv"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/service"
)

// PlayerResponse names a player.
type PlayerResponse struct {
	Name string `json:"name"`
}

// BagItemResponse is an item carried by a dog.
type BagItemResponse struct {
	ID   int `json:"id"`
	Type int `json:"type"`
}

// DogResponse is the public state of a dog.
type DogResponse struct {
	Pos   [2]float64        `json:"pos"`
	Speed [2]float64        `json:"speed"`
	Dir   string            `json:"dir"`
	Bag   []BagItemResponse `json:"bag"`
	Score int               `json:"score"`
}

// LostObjectResponse is an item lying on the map.
type LostObjectResponse struct {
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

// StateResponse is the state of a player's map, keyed by dog and item ids.
type StateResponse struct {
	Players     map[string]DogResponse        `json:"players"`
	LostObjects map[string]LostObjectResponse `json:"lostObjects"`
}

// ActionRequest steers the player's dog.
type ActionRequest struct {
	Move *string `json:"move"`
}

// TickRequest advances the game by TimeDelta milliseconds.
type TickRequest struct {
	TimeDelta *int64 `json:"timeDelta"`
}

// RecordResponse is a leaderboard entry. PlayTime is in seconds.
type RecordResponse struct {
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	PlayTime float64 `json:"playTime"`
}

func newPlayersResponse(players []service.PlayerInfo) map[string]PlayerResponse {
	res := make(map[string]PlayerResponse, len(players))
	for _, p := range players {
		res[strconv.Itoa(p.ID)] = PlayerResponse{Name: p.Name}
	}
	return res
}

func newStateResponse(st service.SessionState) *StateResponse {
	res := &StateResponse{
		Players:     make(map[string]DogResponse, len(st.Dogs)),
		LostObjects: make(map[string]LostObjectResponse, len(st.LostObjects)),
	}
	for _, d := range st.Dogs {
		bag := make([]BagItemResponse, 0, len(d.Bag))
		for _, item := range d.Bag {
			bag = append(bag, BagItemResponse{ID: item.ID, Type: item.Type})
		}
		res.Players[strconv.Itoa(d.ID)] = DogResponse{
			Pos:   [2]float64{d.Position.X, d.Position.Y},
			Speed: [2]float64{d.Speed.X, d.Speed.Y},
			Dir:   d.Direction,
			Bag:   bag,
			Score: d.Score,
		}
	}
	for _, obj := range st.LostObjects {
		res.LostObjects[strconv.Itoa(obj.ID)] = LostObjectResponse{
			Type: obj.Type,
			Pos:  [2]float64{obj.Position.X, obj.Position.Y},
		}
	}
	return res
}

func newRecordsResponse(records []game.Record) []RecordResponse {
	res := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		res = append(res, RecordResponse{
			Name:     r.Name,
			Score:    r.Score,
			PlayTime: r.PlayTime.Seconds(),
		})
	}
	return res
}
