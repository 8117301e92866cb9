// Package leveldb backs kvdb with goleveldb.
package leveldb

import (
	"errors"

	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	minCache   = 16 // MiB
	minHandles = 16

	DefaultCache               = 1024 // MiB
	DefaultHandles             = 512
	DefaultBloomKeyBits        = 2048
	DefaultCompactionTableSize = 4  // MiB
	DefaultCompactionTotalSize = 40 // MiB
	DefaultNoSyncFlag          = false
)

// translateError maps goleveldb errors onto the kvdb ones
func translateError(err error) error {
	if errors.Is(err, leveldb.ErrClosed) {
		return kvdb.ErrClosed
	}

	return err
}

type database struct {
	db *leveldb.DB
}

// New wraps an opened leveldb instance
func New(db *leveldb.DB) kvdb.KVBatchStorage {
	return &database{db: db}
}

func (d *database) Has(key []byte) (bool, error) {
	ok, err := d.db.Has(key, nil)

	return ok, translateError(err)
}

func (d *database) Get(key []byte) ([]byte, bool, error) {
	data, err := d.db.Get(key, nil)

	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, translateError(err)
	default:
		return data, true, nil
	}
}

func (d *database) Set(key, value []byte) error {
	return translateError(d.db.Put(key, value, nil))
}

func (d *database) Delete(key []byte) error {
	return translateError(d.db.Delete(key, nil))
}

func (d *database) NewBatch() kvdb.Batch {
	return &batch{db: d.db, b: new(leveldb.Batch)}
}

// NewIterator walks keys under prefix, starting from prefix+start
func (d *database) NewIterator(prefix, start []byte) kvdb.Iterator {
	r := util.BytesPrefix(prefix)
	r.Start = append(r.Start, start...)

	return d.db.NewIterator(r, nil)
}

func (d *database) Close() error {
	return d.db.Close()
}

type batch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(key) + len(value)

	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size += len(key)

	return nil
}

func (b *batch) ValueSize() int {
	return b.size
}

func (b *batch) Write() error {
	return translateError(b.db.Write(b.b, nil))
}
