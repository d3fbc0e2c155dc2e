// Package loot decides how many new items appear on a map over time.
package loot

import (
	"math"
	"time"
)

// Generator determines how many items to spawn after dt has elapsed.
type Generator interface {
	Generate(dt time.Duration, lootCount, looterCount int) int
}

// RandomFunc returns a value in [0, 1].
type RandomFunc func() float64

// ProbabilisticGenerator spawns loot so that the number of items on a map
// tends towards the number of looters. The longer a map goes without new
// loot, the more likely the shortage is filled.
type ProbabilisticGenerator struct {
	baseInterval    time.Duration
	probability     float64
	random          RandomFunc
	timeWithoutLoot time.Duration
}

// Option configures a ProbabilisticGenerator.
type Option func(*ProbabilisticGenerator)

// WithRandom replaces the default random factor, which always returns 1.
func WithRandom(f RandomFunc) Option {
	return func(g *ProbabilisticGenerator) {
		if f != nil {
			g.random = f
		}
	}
}

// NewProbabilisticGenerator returns a generator that spawns loot with the
// given probability once per baseInterval when looters lack items.
func NewProbabilisticGenerator(baseInterval time.Duration, probability float64, opts ...Option) *ProbabilisticGenerator {
	g := &ProbabilisticGenerator{
		baseInterval: baseInterval,
		probability:  probability,
		random:       func() float64 { return 1 },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements Generator.
func (g *ProbabilisticGenerator) Generate(dt time.Duration, lootCount, looterCount int) int {
	g.timeWithoutLoot += dt

	shortage := 0
	if looterCount > lootCount {
		shortage = looterCount - lootCount
	}
	if shortage == 0 || g.baseInterval <= 0 {
		return 0
	}

	ratio := g.timeWithoutLoot.Seconds() / g.baseInterval.Seconds()
	p := (1 - math.Pow(1-g.probability, ratio)) * g.random()
	p = math.Min(1, math.Max(0, p))

	generated := int(math.Round(float64(shortage) * p))
	if generated > 0 {
		g.timeWithoutLoot = 0
	}
	return generated
}
