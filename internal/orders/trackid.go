package orders

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

const trackIDLength = 8

// NewTrackID returns a short uppercase code customers use to look up their
// order without logging in. 8 base32 characters give 40 bits of entropy.
func NewTrackID() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating track id: %w", err)
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return code[:trackIDLength], nil
}
