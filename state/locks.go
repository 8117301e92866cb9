package state

import (
	"sort"
	"sync"

	"github.com/dogechain-lab/smartwallet/types"
)

type addressLock struct {
	sync.Mutex
	refs int
}

// lockTable hands out one mutex per address. Entries live only while held
// or waited on.
type lockTable struct {
	mu    sync.Mutex
	locks map[types.Address]*addressLock
}

func newLockTable() *lockTable {
	return &lockTable{
		locks: make(map[types.Address]*addressLock),
	}
}

func (t *lockTable) ref(addr types.Address) *addressLock {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[addr]
	if !ok {
		l = &addressLock{}
		t.locks[addr] = l
	}

	l.refs++

	return l
}

func (t *lockTable) unref(addr types.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.locks[addr]

	l.refs--
	if l.refs == 0 {
		delete(t.locks, addr)
	}
}

// lockAll locks every address in ascending order, duplicates collapsed, and
// returns the release function.
func (t *lockTable) lockAll(addrs []types.Address) func() {
	sorted := make([]types.Address, 0, len(addrs))
	seen := make(map[types.Address]struct{}, len(addrs))

	for _, addr := range addrs {
		if _, ok := seen[addr]; ok {
			continue
		}

		seen[addr] = struct{}{}
		sorted = append(sorted, addr)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})

	held := make([]*addressLock, 0, len(sorted))

	for _, addr := range sorted {
		l := t.ref(addr)
		l.Lock()

		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			t.unref(sorted[i])
		}
	}
}

// size returns the number of live entries
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.locks)
}
