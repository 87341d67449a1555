package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex generates a random hex string of n bytes (2n characters)
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("generate random bytes failed")
	}
	return hex.EncodeToString(buf)
}
