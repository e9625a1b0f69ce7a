package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes the SHA-256 of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
