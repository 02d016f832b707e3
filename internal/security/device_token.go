package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// NewDeviceToken returns a random device trust token and the digest the
// server stores for it. Only the device keeps the token.
func NewDeviceToken() (token, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashDeviceToken(token), nil
}

// HashDeviceToken returns the hex SHA-256 of a device token.
func HashDeviceToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// DeviceTokenMatches reports in constant time whether token hashes to
// storedHash. An empty token or hash never matches.
func DeviceTokenMatches(token, storedHash string) bool {
	if token == "" || storedHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashDeviceToken(token)), []byte(storedHash)) == 1
}
