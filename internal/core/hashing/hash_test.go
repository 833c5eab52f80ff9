package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestBytesDeterministic(t *testing.T) {
	a := DigestBytes([]byte("hello world"))
	b := DigestBytes([]byte("hello world"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex-encoded sha256")

	assert.NotEqual(t, a, DigestBytes([]byte("hello world!")))
}

func TestDigestTextMatchesBytes(t *testing.T) {
	assert.Equal(t, DigestBytes([]byte("über café")), DigestText("über café"))
}

func TestDigestEmptyInput(t *testing.T) {
	assert.Equal(t, DigestBytes(nil), DigestBytes([]byte{}))
	assert.Equal(t, DigestBytes(nil), DigestText(""))
}

func TestChunkIDDependsOnTextAndSource(t *testing.T) {
	id := ChunkID("some chunk", "a.txt")

	assert.Equal(t, id, ChunkID("some chunk", "a.txt"), "stable across calls")
	assert.NotEqual(t, id, ChunkID("some chunk", "b.txt"), "same text, other source")
	assert.NotEqual(t, id, ChunkID("other chunk", "a.txt"), "other text, same source")
}
