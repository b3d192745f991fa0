// Package services provides external service integrations and technical concerns like tokens and code generation
package services

import (
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/urlite/urlite/utils"
)

// ShortCodeGenerator produces random fixed-length codes from an
// alphanumeric alphabet. Codes are not guaranteed unique; callers check
// uniqueness against the active record set and retry.
type ShortCodeGenerator interface {
	Generate(length int) string
}

type nanoIDGenerator struct {
	alphabet string
}

// NewShortCodeGenerator creates a generator drawing from the 62-character
// alphanumeric alphabet (0-9, a-z, A-Z).
func NewShortCodeGenerator() ShortCodeGenerator {
	return &nanoIDGenerator{alphabet: utils.ShortCodeAlphabet}
}

func (g *nanoIDGenerator) Generate(length int) string {
	if length <= 0 {
		length = utils.DefaultShortCodeLength
	}
	code, err := gonanoid.Generate(g.alphabet, length)
	if err != nil {
		// Only reachable with an empty or oversized alphabet; ours is fixed.
		panic(err)
	}
	return code
}
