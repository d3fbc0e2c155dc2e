package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// seqTokens hands out predictable tokens.
type seqTokens struct {
	n int
}

func (s *seqTokens) NewToken() string {
	s.n++
	return fmt.Sprintf("%032x", s.n)
}

// fixedTokens always returns the same token.
type fixedTokens string

func (f fixedTokens) NewToken() string { return string(f) }

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// streetMap is a single horizontal road from (0,0) to (10,0).
func streetMap(t *testing.T, capacity int) *Map {
	t.Helper()
	m := NewMap("street", "Street", 1, capacity)
	m.AddRoad(NewHorizontalRoad(Point{X: 0, Y: 0}, 10))
	m.AddLootType(LootType{Name: "key", File: "assets/key.obj", Type: "obj", Scale: 0.03, Value: 10})
	m.AddLootType(LootType{Name: "wallet", File: "assets/wallet.obj", Type: "obj", Scale: 0.01, Value: 30})
	return m
}

func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithRand(testRand()), WithTokenSource(&seqTokens{})}, opts...)
	return New(opts...)
}
