package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Run("produces keys of the fixed length", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			assert.Len(t, Generate(), KeyLength)
		}
	})

	t.Run("draws only from the alphanumeric alphabet", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			key := Generate()
			for _, symbol := range key {
				assert.True(
					t,
					strings.ContainsRune(alphabet, symbol),
					"unexpected symbol %q in the generated key %q", symbol, key,
				)
			}
		}
	})
}

func TestGenerateN(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{name: "empty key", length: 0},
		{name: "single symbol", length: 1},
		{name: "long key", length: 32},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Len(t, GenerateN(test.length), test.length)
		})
	}
}

func TestGenerateDoesNotRepeatImmediately(t *testing.T) {
	// Collisions are possible in principle, but 62^6 values make a
	// repeat within a small sample vanishingly unlikely.
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		key := Generate()
		assert.False(t, seen[key], "the key %q was generated twice", key)
		seen[key] = true
	}
}
