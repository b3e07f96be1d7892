package history

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a short random identifier for a history entry.
func NewID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}
