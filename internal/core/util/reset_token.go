package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const resetTokenBytes = 20

// GenerateResetToken returns a random hex token for the user and the SHA-256
// digest to persist in its place.
func GenerateResetToken() (raw string, hash string, err error) {
	buf := make([]byte, resetTokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	raw = hex.EncodeToString(buf)

	return raw, HashResetToken(raw), nil
}

func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
