// Package hashing provides the stable content digests every dedup decision in
// the pipeline is built on: file-level change detection, chunk identity and
// embedding-cache keys all derive from the same digest function.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestBytes returns the hex digest of raw byte content.
func DigestBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DigestText returns the hex digest of text content.
func DigestText(s string) string {
	return DigestBytes([]byte(s))
}

// ChunkID derives the stable unique id of a chunk from its text and its
// source file identifier. Including the source lets identical text in two
// different files coexist as distinct entries, while the same text reappearing
// in an unmodified (or re-supplied) file collapses to the same id.
func ChunkID(chunkText, source string) string {
	return DigestText(chunkText + source)
}
