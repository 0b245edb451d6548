package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns a URL-safe token with the given number of
// random bytes behind it. Used for reset tokens.
func RandomString(bytes int) string {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure means the process is unusable
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
