package token

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// HexGenerator produces 32 character lowercase hex player tokens from two
// independently seeded 64-bit generators.
// Implements game.TokenSource.
type HexGenerator struct {
	mu   sync.Mutex
	high *rand.Rand
	low  *rand.Rand
}

// NewHexGenerator creates a generator seeded from the system's secure random source.
func NewHexGenerator() (*HexGenerator, error) {
	high, err := newSeededRand()
	if err != nil {
		return nil, err
	}
	low, err := newSeededRand()
	if err != nil {
		return nil, err
	}
	return &HexGenerator{high: high, low: low}, nil
}

// NewHexGeneratorFromSeed creates a deterministic generator.
func NewHexGeneratorFromSeed(seed1, seed2 uint64) *HexGenerator {
	return &HexGenerator{
		high: rand.New(rand.NewPCG(seed1, seed2)),
		low:  rand.New(rand.NewPCG(seed2, seed1)),
	}
}

// NewToken returns a fresh token.
func (g *HexGenerator) NewToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%016x%016x", g.high.Uint64(), g.low.Uint64())
}

func newSeededRand() (*rand.Rand, error) {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("seeding token generator: %w", err)
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)), nil
}
