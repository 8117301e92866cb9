package state

import (
	"sync"
	"testing"

	"github.com/dogechain-lab/smartwallet/types"
	"github.com/stretchr/testify/assert"
)

func TestLockTable_ReleaseDropsEntries(t *testing.T) {
	t.Parallel()

	table := newLockTable()

	release := table.lockAll([]types.Address{addr2, addr1, addr2})
	assert.Equal(t, 2, table.size())

	release()
	assert.Equal(t, 0, table.size())
}

func TestLockTable_Overlapping(t *testing.T) {
	t.Parallel()

	var (
		table   = newLockTable()
		wg      sync.WaitGroup
		counter int
	)

	// opposite orders would deadlock without sorting
	sets := [][]types.Address{{addr1, addr2}, {addr2, addr1}}

	for i := 0; i < 100; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			release := table.lockAll(sets[i%2])
			counter++
			release()
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, table.size())
}
