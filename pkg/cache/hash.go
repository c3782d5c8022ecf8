package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form prefix:hash(parts...). The
// keyer feeds it the stage inputs (source text plus the options that
// affect the stage), so any change to either lands on a fresh key.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 of data as a 64-character hex string. This is
// the content hash used to key parsed graphs, layouts, and rendered
// artifacts (it is also the image id the preview service hands out).
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
