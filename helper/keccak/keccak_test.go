package keccak

import (
	"encoding/hex"
	"testing"

	"github.com/dogechain-lab/fastrlp"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(Keccak256(nil, nil)),
	)
}

func TestKeccak_PoolReuse(t *testing.T) {
	t.Parallel()

	first := Keccak256(nil, []byte("hello"))
	second := Keccak256(nil, []byte("hello"))

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestKeccak_WritePrefixedRlp(t *testing.T) {
	t.Parallel()

	ar := &fastrlp.Arena{}
	v := ar.NewArray()
	v.Set(ar.NewUint(1))

	raw := append([]byte{0x05}, v.MarshalTo(nil)...)

	h := NewKeccak256()
	got := h.WritePrefixedRlp(nil, 0x05, v)

	assert.Equal(t, Keccak256(nil, raw), got)
}
