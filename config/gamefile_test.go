package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGameFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg, err := LoadGameFile(filepath.Join("testdata", "game.json"))
		require.NoError(t, err)

		assert.Equal(t, 15500*time.Millisecond, cfg.RetirementTime)
		assert.Equal(t, 5*time.Second, cfg.LootPeriod)
		assert.InDelta(t, 0.5, cfg.LootProbability, 1e-9)
		require.Len(t, cfg.Maps, 2)

		m := cfg.Maps[0]
		assert.Equal(t, "map1", m.ID())
		assert.Equal(t, "Map 1", m.Name())
		assert.InDelta(t, 4.0, m.DogSpeed(), 1e-9)
		assert.Equal(t, 2, m.BagCapacity())
		require.Len(t, m.Roads(), 4)
		assert.True(t, m.Roads()[0].IsHorizontal())
		assert.Equal(t, game.Point{X: 40, Y: 0}, m.Roads()[0].End())
		assert.True(t, m.Roads()[1].IsVertical())
		assert.Equal(t, game.Point{X: 40, Y: 30}, m.Roads()[1].End())
		assert.Equal(t, []game.Building{{Position: game.Point{X: 5, Y: 5}, Width: 30, Height: 20}}, m.Buildings())
		assert.Equal(t, []game.Office{{ID: "o0", Position: game.Point{X: 40, Y: 30}, Offset: game.Point{X: 5}}}, m.Offices())
		require.Len(t, m.LootTypes(), 2)
		require.NotNil(t, m.LootTypes()[0].Rotation)
		assert.Equal(t, 90, *m.LootTypes()[0].Rotation)
		assert.Nil(t, m.LootTypes()[1].Color)
		assert.Equal(t, 30, m.LootValue(1))

		town := cfg.Maps[1]
		assert.InDelta(t, 3.0, town.DogSpeed(), 1e-9)
		assert.Equal(t, 4, town.BagCapacity())
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := LoadGameFile(filepath.Join("testdata", "game.yaml"))
		require.NoError(t, err)

		assert.Equal(t, game.DefaultRetirementTime, cfg.RetirementTime)
		assert.Equal(t, 2*time.Second, cfg.LootPeriod)
		require.Len(t, cfg.Maps, 1)
		assert.InDelta(t, DefaultDogSpeed, cfg.Maps[0].DogSpeed(), 1e-9)
		assert.Equal(t, DefaultBagCapacity, cfg.Maps[0].BagCapacity())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGameFile(filepath.Join("testdata", "nope.json"))
		assert.Error(t, err)
	})

	t.Run("shipped config", func(t *testing.T) {
		cfg, err := LoadGameFile(filepath.Join("..", "data", "config.json"))
		require.NoError(t, err)
		require.Len(t, cfg.Maps, 2)
		assert.Equal(t, 5, cfg.Maps[1].BagCapacity())
		assert.InDelta(t, 3.0, cfg.Maps[1].DogSpeed(), 1e-9)
	})
}

func TestParseGameJSONErrors(t *testing.T) {
	const loot = `"lootGeneratorConfig": {"period": 1, "probability": 0.5}`
	const body = `"name": "M", "buildings": [], "lootTypes": []`

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing maps", `{` + loot + `}`},
		{"road without end", `{` + loot + `, "maps": [{"id": "m", ` + body + `, "offices": [], "roads": [{"x0": 0, "y0": 0}]}]}`},
		{"road with both ends", `{` + loot + `, "maps": [{"id": "m", ` + body + `, "offices": [], "roads": [{"x0": 0, "y0": 0, "x1": 1, "y1": 1}]}]}`},
		{"probability above one", `{"lootGeneratorConfig": {"period": 1, "probability": 2}, "maps": []}`},
		{"duplicate map", `{` + loot + `, "maps": [` +
			`{"id": "m", ` + body + `, "offices": [], "roads": [{"x0": 0, "y0": 0, "x1": 1}]},` +
			`{"id": "m", ` + body + `, "offices": [], "roads": [{"x0": 0, "y0": 0, "x1": 1}]}]}`},
		{"duplicate office", `{` + loot + `, "maps": [{"id": "m", ` + body + `, "roads": [{"x0": 0, "y0": 0, "x1": 1}], "offices": [` +
			`{"id": "o", "x": 0, "y": 0, "offsetX": 0, "offsetY": 0},` +
			`{"id": "o", "x": 1, "y": 0, "offsetX": 0, "offsetY": 0}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameJSON([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidGameFile)
		})
	}
}

func TestGameConfigNewGame(t *testing.T) {
	cfg, err := LoadGameFile(filepath.Join("testdata", "game.json"))
	require.NoError(t, err)

	g, err := cfg.NewGame(game.WithRandomSpawn(true))
	require.NoError(t, err)

	assert.Len(t, g.Maps(), 2)
	assert.Equal(t, 15500*time.Millisecond, g.RetirementTime())
	_, ok := g.FindMap("town")
	assert.True(t, ok)
}
