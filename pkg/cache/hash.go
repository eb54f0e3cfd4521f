package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is mixed into every derived key. Bump it when the encoding of
// cached layouts or artifacts changes so stale entries are never read.
const keyVersion = 1

// hashKey returns "<prefix>:<sha256 of the version and parts as JSON>".
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	fmt.Fprintf(h, "gazestep/%d\n", keyVersion)
	// parts are plain option structs and strings; encoding cannot fail.
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data, 64 characters long.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
