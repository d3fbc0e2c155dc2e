package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/game/loot"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Defaults used when the game file leaves them out.
const (
	DefaultDogSpeed    = 1.0
	DefaultBagCapacity = 3
)

const gameSchemaURL = "https://vinom-gather/game.schema.json"

//go:embed schema/game.schema.json
var gameSchemaJSON []byte

// ErrInvalidGameFile wraps every problem found in a game file.
var ErrInvalidGameFile = errors.New("invalid game file")

// GameConfig is a validated game file.
type GameConfig struct {
	Maps            []*game.Map
	RetirementTime  time.Duration
	LootPeriod      time.Duration
	LootProbability float64
}

type gameFile struct {
	DefaultDogSpeed     *float64 `json:"defaultDogSpeed"`
	DefaultBagCapacity  *int     `json:"defaultBagCapacity"`
	DogRetirementTime   *float64 `json:"dogRetirementTime"`
	LootGeneratorConfig struct {
		Period      float64 `json:"period"`
		Probability float64 `json:"probability"`
	} `json:"lootGeneratorConfig"`
	Maps []mapFile `json:"maps"`
}

type mapFile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DogSpeed    *float64   `json:"dogSpeed"`
	BagCapacity *int       `json:"bagCapacity"`
	Roads       []roadFile `json:"roads"`
	Buildings   []struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"buildings"`
	Offices []struct {
		ID      string `json:"id"`
		X       int    `json:"x"`
		Y       int    `json:"y"`
		OffsetX int    `json:"offsetX"`
		OffsetY int    `json:"offsetY"`
	} `json:"offices"`
	LootTypes []struct {
		Name     string  `json:"name"`
		File     string  `json:"file"`
		Type     string  `json:"type"`
		Rotation *int    `json:"rotation"`
		Color    *string `json:"color"`
		Scale    float64 `json:"scale"`
		Value    int     `json:"value"`
	} `json:"lootTypes"`
}

type roadFile struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
}

// LoadGameFile reads and validates the game file at path. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func LoadGameFile(path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GameConfig{}, fmt.Errorf("reading game file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseGameYAML(data)
	}
	return ParseGameJSON(data)
}

// ParseGameYAML validates and decodes a YAML game file.
func ParseGameYAML(data []byte) (GameConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
	}
	return ParseGameJSON(jsonData)
}

// ParseGameJSON validates and decodes a JSON game file.
func ParseGameJSON(data []byte) (GameConfig, error) {
	schema, err := compileGameSchema()
	if err != nil {
		return GameConfig{}, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
	}
	if err := schema.Validate(doc); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
	}

	var file gameFile
	if err := json.Unmarshal(data, &file); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
	}
	return file.build()
}

func compileGameSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(gameSchemaURL, bytes.NewReader(gameSchemaJSON)); err != nil {
		return nil, fmt.Errorf("loading game schema: %w", err)
	}
	schema, err := c.Compile(gameSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling game schema: %w", err)
	}
	return schema, nil
}

func (f gameFile) build() (GameConfig, error) {
	speed := valueOr(f.DefaultDogSpeed, DefaultDogSpeed)
	capacity := valueOr(f.DefaultBagCapacity, DefaultBagCapacity)
	retirement := valueOr(f.DogRetirementTime, game.DefaultRetirementTime.Seconds())

	cfg := GameConfig{
		RetirementTime:  seconds(retirement),
		LootPeriod:      seconds(f.LootGeneratorConfig.Period),
		LootProbability: f.LootGeneratorConfig.Probability,
	}

	seen := make(map[string]struct{}, len(f.Maps))
	for _, mf := range f.Maps {
		if _, dup := seen[mf.ID]; dup {
			return GameConfig{}, fmt.Errorf("%w: %w: %q", ErrInvalidGameFile, game.ErrDuplicateMap, mf.ID)
		}
		seen[mf.ID] = struct{}{}

		m, err := mf.build(speed, capacity)
		if err != nil {
			return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidGameFile, err)
		}
		cfg.Maps = append(cfg.Maps, m)
	}
	return cfg, nil
}

func (mf mapFile) build(defaultSpeed float64, defaultCapacity int) (*game.Map, error) {
	m := game.NewMap(mf.ID, mf.Name, valueOr(mf.DogSpeed, defaultSpeed), valueOr(mf.BagCapacity, defaultCapacity))

	for _, r := range mf.Roads {
		start := game.Point{X: r.X0, Y: r.Y0}
		if r.X1 != nil {
			m.AddRoad(game.NewHorizontalRoad(start, *r.X1))
		} else {
			m.AddRoad(game.NewVerticalRoad(start, *r.Y1))
		}
	}
	for _, b := range mf.Buildings {
		m.AddBuilding(game.Building{Position: game.Point{X: b.X, Y: b.Y}, Width: b.W, Height: b.H})
	}
	for _, o := range mf.Offices {
		err := m.AddOffice(game.Office{
			ID:       o.ID,
			Position: game.Point{X: o.X, Y: o.Y},
			Offset:   game.Point{X: o.OffsetX, Y: o.OffsetY},
		})
		if err != nil {
			return nil, err
		}
	}
	for _, lt := range mf.LootTypes {
		m.AddLootType(game.LootType{
			Name:     lt.Name,
			File:     lt.File,
			Type:     lt.Type,
			Rotation: lt.Rotation,
			Color:    lt.Color,
			Scale:    lt.Scale,
			Value:    lt.Value,
		})
	}
	return m, nil
}

// NewGame builds a game holding every configured map. opts are applied after
// the file's retirement time and loot generator settings.
func (c GameConfig) NewGame(opts ...game.Option) (*game.Game, error) {
	base := []game.Option{
		game.WithRetirementTime(c.RetirementTime),
		game.WithLootGenerator(func() loot.Generator {
			return loot.NewProbabilisticGenerator(c.LootPeriod, c.LootProbability)
		}),
	}
	g := game.New(append(base, opts...)...)
	for _, m := range c.Maps {
		if err := g.AddMap(m); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
