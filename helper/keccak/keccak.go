package keccak

import (
	"hash"

	"github.com/dogechain-lab/fastrlp"
	"golang.org/x/crypto/sha3"
)

type hashImpl interface {
	hash.Hash
	Read(b []byte) (int, error)
}

// Keccak is the sha256 keccak hash
type Keccak struct {
	buf  []byte // buffer to store intermediate rlp marshal values
	tmp  []byte
	hash hashImpl
}

// WriteRlp writes an RLP value
func (k *Keccak) WriteRlp(dst []byte, v *fastrlp.Value) []byte {
	k.buf = v.MarshalTo(k.buf[:0])
	k.Write(k.buf) //nolint:errcheck

	return k.Sum(dst)
}

// WritePrefixedRlp writes a one byte type prefix followed by an RLP value.
// Typed payloads (EIP-2718 style) are hashed this way.
func (k *Keccak) WritePrefixedRlp(dst []byte, prefix byte, v *fastrlp.Value) []byte {
	k.buf = append(k.buf[:0], prefix)
	k.buf = v.MarshalTo(k.buf)
	k.Write(k.buf) //nolint:errcheck

	return k.Sum(dst)
}

// Write implements the hash interface
func (k *Keccak) Write(b []byte) (int, error) {
	return k.hash.Write(b)
}

// Reset implements the hash interface
func (k *Keccak) Reset() {
	k.buf = k.buf[:0]
	k.hash.Reset()
}

// Sum implements the hash interface
func (k *Keccak) Sum(dst []byte) []byte {
	k.hash.Read(k.tmp) //nolint:errcheck
	dst = append(dst, k.tmp[:]...)

	return dst
}

func newKeccak(hash hashImpl) *Keccak {
	return &Keccak{
		hash: hash,
		tmp:  make([]byte, hash.Size()),
	}
}

// NewKeccak256 returns a new keccak 256
func NewKeccak256() *Keccak {
	//nolint:forcetypeassert
	return newKeccak(sha3.NewLegacyKeccak256().(hashImpl))
}

// Keccak256 hashes a src with keccak-256
func Keccak256(dst, src []byte) []byte {
	h := DefaultKeccakPool.Get()
	h.Write(src) //nolint:errcheck
	dst = h.Sum(dst)
	DefaultKeccakPool.Put(h)

	return dst
}
