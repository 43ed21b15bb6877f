package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// TopicDigest derives a stable 64-bit digest from a topic string.
// The topic is trimmed and lowercased first so that "Side Hustle" and
// "side hustle " select the same catalog entries. All deterministic
// selection in the assembler (content points, CTA phrasing) is driven
// by this digest: identical requests always produce identical scripts.
func TopicDigest(topic string) uint64 {
	normalized := strings.ToLower(strings.TrimSpace(topic))
	h := sha256.Sum256([]byte(normalized))
	return binary.BigEndian.Uint64(h[:8])
}

// PickIndex maps a digest onto an index in [0, n). n must be positive.
func PickIndex(digest uint64, n int) int {
	return int(digest % uint64(n))
}
