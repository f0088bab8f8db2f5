package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, for logs.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ContentHash identifies uploaded file content independent of file name.
type ContentHash Hash

func (h ContentHash) String() string { return Hash(h).String() }

// ComputeContentHash fingerprints a file by role, byte length and digest so
// identical bytes uploaded for different roles never share a cache entry.
func ComputeContentHash(role string, data []byte) ContentHash {
	h := sha256.New()
	h.Write([]byte(role))
	h.Write([]byte{0})
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(data)))
	h.Write(size[:])
	h.Write(data)
	return ContentHash(hex.EncodeToString(h.Sum(nil)))
}

// ColumnSubsetKey builds an order-independent key for a column subset.
// A nil or empty subset means "all columns".
func ColumnSubsetKey(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
