// Package keygen produces the short random identifiers used both for URL
// aliases and for user ids. The generator itself gives no uniqueness
// guarantee; callers check the relevant store and retry on collision.
package keygen

import (
	"crypto/rand"
	"math/big"
)

const (
	// KeyLength is the number of characters in a generated identifier.
	KeyLength = 6

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate returns a KeyLength-character string drawn from an alphanumeric
// alphabet, uniformly at random per character.
func Generate() string {
	return GenerateN(KeyLength)
}

// GenerateN returns a random alphanumeric string of the given length.
func GenerateN(length int) string {
	result := make([]byte, length)
	for i := range result {
		randomIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand.Reader does not fail on supported platforms
			panic(err)
		}
		result[i] = alphabet[randomIndex.Int64()]
	}

	return string(result)
}
