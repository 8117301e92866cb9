package leveldb

import (
	"testing"

	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/dogechain-lab/smartwallet/helper/kvdb/dbtest"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func TestLevelDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() kvdb.KVBatchStorage {
			db, err := NewMemory(hclog.NewNullLogger())
			if err != nil {
				t.Fatal(err)
			}

			return db
		})
	})
}

func TestBuilder_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	db, err := NewBuilder(hclog.NewNullLogger(), dir).
		SetCacheSize(DefaultCache).
		SetHandles(DefaultHandles).
		SetNoSync(true).
		Build()
	require.NoError(t, err)

	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = NewBuilder(hclog.NewNullLogger(), dir).Build()
	require.NoError(t, err)

	defer db.Close()

	v, ok, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestClosedDatabase(t *testing.T) {
	t.Parallel()

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)

	kv := New(db)
	require.NoError(t, kv.Close())

	_, _, err = kv.Get([]byte("k"))
	assert.ErrorIs(t, err, kvdb.ErrClosed)
}

func TestBuilder_Floors(t *testing.T) {
	t.Parallel()

	b, ok := NewBuilder(hclog.NewNullLogger(), t.TempDir()).
		SetCacheSize(1).
		SetHandles(0).
		SetBloomKeyBits(-1).
		SetCompactionTableSize(0).
		(*builder)
	require.True(t, ok)

	assert.Equal(t, minCache, b.cacheSize)
	assert.Equal(t, minHandles, b.handles)
	assert.Equal(t, DefaultBloomKeyBits, b.bloomKeyBits)
	assert.Equal(t, DefaultCompactionTableSize, b.tableSize)

	o := b.options()
	assert.Equal(t, 2*o.CompactionTableSize, o.WriteBuffer)
}

func TestNewMemory_DropsDataOnClose(t *testing.T) {
	t.Parallel()

	db, err := NewMemory(hclog.NewNullLogger())
	require.NoError(t, err)

	require.NoError(t, db.Set([]byte("k"), []byte("v")))

	v, ok, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, db.Close())

	_, err = db.Has([]byte("k"))
	assert.ErrorIs(t, err, kvdb.ErrClosed)

	other, err := NewMemory(hclog.NewNullLogger())
	require.NoError(t, err)

	defer other.Close()

	_, ok, err = other.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}
