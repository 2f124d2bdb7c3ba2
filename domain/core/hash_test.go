package core

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_StreamingMatchesOneShot(t *testing.T) {
	h := NewHasher()
	_, _ = io.WriteString(h, "ab")
	_, _ = io.WriteString(h, "c")

	assert.Equal(t, NewHash([]byte("abc")), HashOf(h))
	assert.Equal(t, Hash("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"), NewHash([]byte("abc")))
}

func TestHash_Short(t *testing.T) {
	h := NewHash([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01", h.Short())
	assert.Equal(t, "abc", Hash("abc").Short())
	assert.True(t, Hash("").IsEmpty())
}
