package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for session tokens.
type Generator interface {
	NewID() (string, error)
}

const defaultSize = 32

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns hex IDs built from size random bytes.
func NewRandomGenerator(size int) *RandomGenerator {
	if size < 16 {
		size = defaultSize
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size == 0 {
		size = defaultSize
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
