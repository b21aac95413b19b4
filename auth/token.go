package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// RememberTokenBytes is the entropy of a session (remember) token.
const RememberTokenBytes = 32

// MakeRememberToken generates a new random session token,
// base64 URL encoded.
func MakeRememberToken() (string, error) {
	b := make([]byte, RememberTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// NBytes returns the number of bytes encoded in a base64 URL encoded string.
// Used to reject tokens that carry too little entropy.
func NBytes(base64String string) (int, error) {
	b, err := base64.URLEncoding.DecodeString(base64String)
	if err != nil {
		return -1, err
	}
	return len(b), nil
}
