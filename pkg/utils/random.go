package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomState returns a URL-safe random string of n bytes of entropy, used
// for the OAuth state parameter.
func RandomState(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
