package types

import (
	"github.com/dogechain-lab/fastrlp"
)

var marshalArenaPool fastrlp.ArenaPool

type RLPMarshaler interface {
	MarshalRLPTo(dst []byte) []byte
}

type marshalRLPFunc func(ar *fastrlp.Arena) *fastrlp.Value

func MarshalRLPTo(obj marshalRLPFunc, dst []byte) []byte {
	ar := marshalArenaPool.Get()
	dst = obj(ar).MarshalTo(dst)
	marshalArenaPool.Put(ar)

	return dst
}
