package dbtest

import (
	"bytes"
	"testing"

	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSuite runs a suite of tests against a KVBatchStorage implementation.
func TestDatabaseSuite(t *testing.T, New func() kvdb.KVBatchStorage) {
	t.Helper()

	t.Run("GetSetDelete", func(t *testing.T) {
		db := New()
		defer db.Close()

		key, value := []byte("hello"), []byte("world")

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Set(key, value))

		v, ok, err := db.Get(key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, value, v)

		require.NoError(t, db.Delete(key))

		_, ok, err = db.Get(key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("BatchIsInvisibleUntilWrite", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		require.NoError(t, b.Set([]byte("a"), []byte("1")))
		require.NoError(t, b.Set([]byte("b"), []byte("2")))
		assert.Equal(t, 4, b.ValueSize())

		_, ok, err := db.Get([]byte("a"))
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.Write())

		for k, exp := range map[string]string{"a": "1", "b": "2"} {
			v, ok, err := db.Get([]byte(k))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte(exp), v)
		}
	})

	t.Run("IteratorPrefixAndStart", func(t *testing.T) {
		db := New()
		defer db.Close()

		content := map[string]string{
			"a1": "v1",
			"a2": "v2",
			"a3": "v3",
			"b1": "v4",
		}

		for k, v := range content {
			require.NoError(t, db.Set([]byte(k), []byte(v)))
		}

		collect := func(prefix, start string) []string {
			it := db.NewIterator([]byte(prefix), []byte(start))
			defer it.Release()

			var keys []string

			for it.Next() {
				keys = append(keys, string(it.Key()))

				assert.True(t, bytes.Equal([]byte(content[string(it.Key())]), it.Value()))
			}

			assert.NoError(t, it.Error())

			return keys
		}

		assert.Equal(t, []string{"a1", "a2", "a3", "b1"}, collect("", ""))
		assert.Equal(t, []string{"a1", "a2", "a3"}, collect("a", ""))
		assert.Equal(t, []string{"a2", "a3"}, collect("a", "2"))
		assert.Nil(t, collect("c", ""))
	})
}
