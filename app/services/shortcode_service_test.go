package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urlite/urlite/utils"
)

func TestShortCodeGenerator(t *testing.T) {
	gen := NewShortCodeGenerator()

	t.Run("LengthAndAlphabet", func(t *testing.T) {
		for _, length := range []int{4, 6, 10, 21} {
			code := gen.Generate(length)
			assert.Len(t, code, length)
			for _, c := range code {
				assert.True(t, strings.ContainsRune(utils.ShortCodeAlphabet, c), "unexpected character %q", c)
			}
		}
	})

	t.Run("NonPositiveLengthFallsBackToDefault", func(t *testing.T) {
		assert.Len(t, gen.Generate(0), utils.DefaultShortCodeLength)
		assert.Len(t, gen.Generate(-1), utils.DefaultShortCodeLength)
	})

	t.Run("CodesAreWellDistributed", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			seen[gen.Generate(utils.DefaultShortCodeLength)] = struct{}{}
		}
		// 62^6 combinations make 1000 draws collision-free in practice
		assert.Len(t, seen, 1000)
	})
}
