package codename

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "gadgetry/internal/errors"
)

func containsWord(list []string, word string) bool {
	for _, w := range list {
		if w == word {
			return true
		}
	}
	return false
}

func TestGenerator_Generate_Format(t *testing.T) {
	gen := NewGenerator(func(ctx context.Context, codename string) (bool, error) {
		return false, nil
	})

	for i := 0; i < 50; i++ {
		name, err := gen.Generate(context.Background())
		assert.NoError(t, err)

		words := strings.Split(name, " ")
		if assert.Len(t, words, 3) {
			assert.True(t, containsWord(prefixes, words[0]), "unknown prefix %q", words[0])
			assert.True(t, containsWord(adjectives, words[1]), "unknown adjective %q", words[1])
			assert.True(t, containsWord(nouns, words[2]), "unknown noun %q", words[2])
		}
	}
}

func TestGenerator_Generate_RetriesOnCollision(t *testing.T) {
	calls := 0
	gen := NewGenerator(func(ctx context.Context, codename string) (bool, error) {
		calls++
		// First two candidates are taken, third is free.
		return calls < 3, nil
	})

	name, err := gen.Generate(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, name)
	assert.Equal(t, 3, calls)
}

func TestGenerator_Generate_Exhaustion(t *testing.T) {
	calls := 0
	gen := NewGenerator(func(ctx context.Context, codename string) (bool, error) {
		calls++
		return true, nil
	})

	name, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrCodenameSpaceExhausted)
	assert.Empty(t, name)
	assert.Equal(t, maxAttempts, calls)
}

func TestGenerator_Generate_Deterministic(t *testing.T) {
	gen := NewGeneratorWithSource(
		func(ctx context.Context, codename string) (bool, error) { return false, nil },
		func(n int) int { return 0 },
	)

	name, err := gen.Generate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "The Silent Phoenix", name)
}
