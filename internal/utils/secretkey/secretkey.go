// Package secretkey generates the access tokens handed to anonymous
// reporters. A secret key is the only credential a reporter ever holds, so
// it must come from a CSPRNG and carry enough entropy that collisions and
// guessing are both negligible.
package secretkey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Bytes of entropy per key. 32 bytes hex-encodes to 64 characters.
const keyBytes = 32

// New returns a fresh 64-character lowercase hex secret key.
func New() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
