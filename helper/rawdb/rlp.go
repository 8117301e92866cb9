package rawdb

import (
	"errors"

	"github.com/dogechain-lab/smartwallet/helper/kvdb"
)

var ErrNotFound = errors.New("not found")

type rlpUnmarshaler interface {
	UnmarshalRLP(input []byte) error
}

type rlpMarshaler interface {
	MarshalRLPTo(dst []byte) []byte
}

func readRLP(db kvdb.KVReader, key []byte, raw rlpUnmarshaler) error {
	data, ok, err := db.Get(key)
	if err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}

	return raw.UnmarshalRLP(data)
}

func writeRLP(db kvdb.KVWriter, key []byte, raw rlpMarshaler) error {
	return db.Set(key, raw.MarshalRLPTo(nil))
}
