package stypes

import (
	"testing"

	"github.com/dogechain-lab/smartwallet/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner  = types.StringToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	logic  = types.StringToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	record = &Account{Nonce: 3, CodeRef: logic, Latch: InitializedBy(owner)}
)

func TestLatch(t *testing.T) {
	t.Parallel()

	var l Latch

	assert.False(t, l.IsInitialized())

	got, ok := l.Owner()
	assert.False(t, ok)
	assert.Equal(t, types.ZeroAddress, got)

	l = InitializedBy(owner)
	assert.True(t, l.IsInitialized())

	got, ok = l.Owner()
	assert.True(t, ok)
	assert.Equal(t, owner, got)
}

func TestAccount_RLP(t *testing.T) {
	t.Parallel()

	cases := []*Account{
		{},
		{Nonce: 1, CodeRef: logic},
		record,
		// revoked, latch retained
		{Nonce: 4, Latch: InitializedBy(owner)},
	}

	for i, c := range cases {
		decoded := new(Account)
		require.NoError(t, decoded.UnmarshalRLP(c.MarshalRLPTo(nil)), "case %d", i)
		assert.Equal(t, c.String(), decoded.String(), "case %d", i)
		assert.Equal(t, c.Latch.IsInitialized(), decoded.Latch.IsInitialized(), "case %d", i)
	}
}

func TestAccount_UnmarshalBadOwner(t *testing.T) {
	t.Parallel()

	// two elements only
	assert.Error(t, new(Account).UnmarshalRLP([]byte{0xc2, 0x80, 0x80}))
}

func TestAccount_CopyIsDeep(t *testing.T) {
	t.Parallel()

	cp := record.Copy()
	cp.Nonce++
	cp.Latch = Latch{}

	assert.Equal(t, uint64(3), record.Nonce)
	assert.True(t, record.Latch.IsInitialized())
}

func TestAccount_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Account{}).Empty())
	assert.False(t, (&Account{Nonce: 1}).Empty())
	assert.False(t, (&Account{Latch: InitializedBy(owner)}).Empty())
	assert.False(t, record.Empty())
}
