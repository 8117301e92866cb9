package leveldb

import (
	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// Builder collects the leveldb tuning knobs before opening the database.
// Sizes are in MiB.
type Builder interface {
	SetCacheSize(int) Builder
	SetHandles(int) Builder
	SetBloomKeyBits(int) Builder
	SetCompactionTableSize(int) Builder
	SetCompactionTotalSize(int) Builder
	SetNoSync(bool) Builder

	// Build opens the database at the builder path
	Build() (kvdb.KVBatchStorage, error)
}

type builder struct {
	logger hclog.Logger
	path   string

	cacheSize    int
	handles      int
	bloomKeyBits int
	tableSize    int
	totalSize    int
	noSync       bool
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}

	return v
}

func (b *builder) SetCacheSize(cacheSize int) Builder {
	b.cacheSize = atLeast(cacheSize, minCache)

	return b
}

func (b *builder) SetHandles(handles int) Builder {
	b.handles = atLeast(handles, minHandles)

	return b
}

func (b *builder) SetBloomKeyBits(bloomKeyBits int) Builder {
	if bloomKeyBits > 0 {
		b.bloomKeyBits = bloomKeyBits
	}

	return b
}

func (b *builder) SetCompactionTableSize(compactionTableSize int) Builder {
	if compactionTableSize > 0 {
		b.tableSize = compactionTableSize
	}

	return b
}

func (b *builder) SetCompactionTotalSize(compactionTotalSize int) Builder {
	if compactionTotalSize > 0 {
		b.totalSize = compactionTotalSize
	}

	return b
}

func (b *builder) SetNoSync(noSync bool) Builder {
	b.noSync = noSync

	return b
}

// options translates the builder into goleveldb options. Account records
// are small, so blocks are kept small as well.
func (b *builder) options() *opt.Options {
	return &opt.Options{
		OpenFilesCacheCapacity:        b.handles,
		BlockCacheCapacity:            b.cacheSize * opt.MiB,
		CompactionTableSize:           b.tableSize * opt.MiB,
		CompactionTotalSize:           b.totalSize * opt.MiB,
		WriteBuffer:                   b.tableSize * 2 * opt.MiB,
		CompactionTableSizeMultiplier: 1.1,
		Filter:                        filter.NewBloomFilter(b.bloomKeyBits),
		NoSync:                        b.noSync,
		BlockSize:                     16 * opt.KiB,
		DisableSeeksCompaction:        true,
	}
}

func (b *builder) Build() (kvdb.KVBatchStorage, error) {
	db, err := leveldb.OpenFile(b.path, b.options())
	if err != nil {
		return nil, err
	}

	b.logger.Info("opened account database",
		"path", b.path,
		"cache_mib", b.cacheSize,
		"handles", b.handles,
		"bloom_bits", b.bloomKeyBits,
		"table_mib", b.tableSize,
		"total_mib", b.totalSize,
		"nosync", b.noSync,
	)

	return New(db), nil
}

// NewBuilder creates a builder holding the default options
func NewBuilder(logger hclog.Logger, path string) Builder {
	return &builder{
		logger:       logger.Named("leveldb"),
		path:         path,
		cacheSize:    minCache,
		handles:      minHandles,
		bloomKeyBits: DefaultBloomKeyBits,
		tableSize:    DefaultCompactionTableSize,
		totalSize:    DefaultCompactionTotalSize,
		noSync:       DefaultNoSyncFlag,
	}
}

// NewMemory opens a leveldb instance over in-memory storage. Nothing
// survives Close.
func NewMemory(logger hclog.Logger) (kvdb.KVBatchStorage, error) {
	b := NewBuilder(logger, "").(*builder) //nolint:forcetypeassert

	db, err := leveldb.Open(storage.NewMemStorage(), b.options())
	if err != nil {
		return nil, err
	}

	b.logger.Info("opened in-memory account database")

	return New(db), nil
}
