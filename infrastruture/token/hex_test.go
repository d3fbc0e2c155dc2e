package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexGenerator(t *testing.T) {
	hex := regexp.MustCompile(`^[0-9a-f]{32}$`)

	t.Run("Generate well formed tokens", func(t *testing.T) {
		gen, err := NewHexGenerator()
		require.NoError(t, err)

		seen := make(map[string]struct{})
		for range 1000 {
			token := gen.NewToken()
			assert.Regexp(t, hex, token)
			seen[token] = struct{}{}
		}
		assert.Len(t, seen, 1000)
	})

	t.Run("Same seed gives same tokens", func(t *testing.T) {
		a := NewHexGeneratorFromSeed(7, 11)
		b := NewHexGeneratorFromSeed(7, 11)
		for range 10 {
			assert.Equal(t, a.NewToken(), b.NewToken())
		}
	})

	t.Run("Short values are zero padded", func(t *testing.T) {
		token := NewHexGeneratorFromSeed(0, 0).NewToken()
		assert.Len(t, token, 32)
	})
}
