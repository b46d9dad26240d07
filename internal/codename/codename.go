// Package codename produces the human-readable display names assigned to
// gadgets at creation. Names are drawn as "{prefix} {adjective} {noun}" from
// fixed word lists, giving a namespace of 3*8*8 = 192 combinations. That is
// a hard capacity ceiling: once most names are taken, generation fails fast
// rather than spinning.
package codename

import (
	"context"
	"fmt"
	"math/rand"

	"gadgetry/internal/errors"
)

var (
	prefixes   = []string{"The", "Project", "Operation"}
	adjectives = []string{"Silent", "Dark", "Shadow", "Ghost", "Phantom", "Crystal", "Iron", "Steel"}
	nouns      = []string{"Phoenix", "Dragon", "Eagle", "Wolf", "Serpent", "Tiger", "Lion", "Hawk"}
)

// maxAttempts bounds the uniqueness retry loop.
const maxAttempts = 64

// ExistsFunc reports whether a codename is already taken.
type ExistsFunc func(ctx context.Context, codename string) (bool, error)

// Generator samples codenames and retries on collision with existing ones.
type Generator struct {
	exists ExistsFunc
	intN   func(n int) int
}

// NewGenerator builds a generator that checks candidates through exists.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists, intN: rand.Intn}
}

// NewGeneratorWithSource builds a generator with a deterministic sampler,
// for tests.
func NewGeneratorWithSource(exists ExistsFunc, intN func(n int) int) *Generator {
	return &Generator{exists: exists, intN: intN}
}

// Generate returns a codename not currently in use. It samples uniformly
// with replacement and returns ErrCodenameSpaceExhausted after maxAttempts
// collisions. The returned name is not reserved; callers must be prepared
// for a duplicate-key conflict on insert.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := g.sample()
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check codename: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.ErrCodenameSpaceExhausted
}

func (g *Generator) sample() string {
	prefix := prefixes[g.intN(len(prefixes))]
	adjective := adjectives[g.intN(len(adjectives))]
	noun := nouns[g.intN(len(nouns))]
	return prefix + " " + adjective + " " + noun
}
