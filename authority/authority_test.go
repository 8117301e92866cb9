package authority

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/dogechain-lab/smartwallet/crypto"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = 2000

var (
	delegatorKey = crypto.MustParsePrivateKey("0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	executorKey  = crypto.MustParsePrivateKey("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")

	delegator = crypto.GetAddressFromKey(delegatorKey)
	logic     = types.StringToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

type mockNonces struct {
	nonces map[types.Address]uint64
	err    error
}

func newMockNonces() *mockNonces {
	return &mockNonces{nonces: map[types.Address]uint64{}}
}

func (m *mockNonces) GetNonce(addr types.Address) (uint64, error) {
	if m.err != nil {
		return 0, m.err
	}

	return m.nonces[addr], nil
}

func (m *mockNonces) IncrNonce(addr types.Address) error {
	m.nonces[addr]++

	return nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	verifier, err := NewVerifier(16)
	require.NoError(t, err)

	return NewRegistry(hclog.NewNullLogger(), testChainID, verifier)
}

func sign(t *testing.T, chainID int64, target types.Address, nonce uint64) *types.Authorization {
	t.Helper()

	auth, err := crypto.SignAuthorization(delegatorKey, big.NewInt(chainID), target, nonce)
	require.NoError(t, err)

	return auth
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(0)
	require.NoError(t, err)

	auth := sign(t, testChainID, logic, 0)

	assert.True(t, v.Verify(auth, delegator))
	assert.False(t, v.Verify(auth, crypto.GetAddressFromKey(executorKey)))

	hits, misses := v.CacheStats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestVerifier_TamperedTuple(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(16)
	require.NoError(t, err)

	auth := sign(t, testChainID, logic, 0)
	require.True(t, v.Verify(auth, delegator))

	// same signature over another nonce recovers someone else, if anyone
	tampered := auth.Copy()
	tampered.Nonce = 1

	assert.False(t, v.Verify(tampered, delegator))
}

func TestVerifier_Malformed(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(16)
	require.NoError(t, err)

	valid := sign(t, testChainID, logic, 0)

	cases := map[string]func(a *types.Authorization){
		"nil r":      func(a *types.Authorization) { a.R = nil },
		"nil s":      func(a *types.Authorization) { a.S = nil },
		"zero r":     func(a *types.Authorization) { a.R = new(big.Int) },
		"bad parity": func(a *types.Authorization) { a.V = 2 },
		"high s": func(a *types.Authorization) {
			a.S = new(big.Int).Sub(crypto.S256.Params().N, a.S)
		},
		"oversized r": func(a *types.Authorization) {
			a.R = new(big.Int).Lsh(big.NewInt(1), 300)
		},
	}

	for name, mutate := range cases {
		mutate := mutate

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			auth := valid.Copy()
			mutate(auth)

			assert.NotPanics(t, func() {
				assert.False(t, v.Verify(auth, delegator))
			})

			_, err := v.RecoverSigner(auth)
			assert.ErrorIs(t, err, ErrBadSignature)
		})
	}

	_, err = v.RecoverSigner(nil)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestRegistry_ConsumesOnce(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	nonces := newMockNonces()
	auth := sign(t, testChainID, logic, 0)

	require.NoError(t, r.CheckAndConsume(nonces, delegator, auth))
	assert.Equal(t, uint64(1), nonces.nonces[delegator])

	// replay
	assert.ErrorIs(t, r.CheckAndConsume(nonces, delegator, auth), ErrNonceMismatch)
	assert.Equal(t, uint64(1), nonces.nonces[delegator])
}

func TestRegistry_ChainID(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	assert.Equal(t, uint64(testChainID), r.ChainID())

	nonces := newMockNonces()

	assert.ErrorIs(t, r.CheckAndConsume(nonces, delegator, sign(t, 1, logic, 0)), ErrChainMismatch)
	assert.Equal(t, uint64(0), nonces.nonces[delegator])

	// wildcard
	assert.NoError(t, r.CheckAndConsume(nonces, delegator, sign(t, 0, logic, 0)))
	assert.Equal(t, uint64(1), nonces.nonces[delegator])
}

func TestRegistry_CheckOrder(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	nonces := newMockNonces()

	// wrong chain and wrong nonce: chain is reported
	assert.ErrorIs(t, r.CheckAndConsume(nonces, delegator, sign(t, 1, logic, 5)), ErrChainMismatch)

	// wrong nonce and wrong signer: nonce is reported
	bad := sign(t, testChainID, logic, 5)
	other := crypto.GetAddressFromKey(executorKey)
	assert.ErrorIs(t, r.CheckAndConsume(nonces, other, bad), ErrNonceMismatch)

	// right nonce, wrong signer
	good := sign(t, testChainID, logic, 0)
	assert.ErrorIs(t, r.CheckAndConsume(nonces, other, good), ErrBadSignature)
	assert.Equal(t, uint64(0), nonces.nonces[other])
}

func TestRegistry_NonceExhausted(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	nonces := newMockNonces()
	nonces.nonces[delegator] = math.MaxUint64

	err := r.CheckAndConsume(nonces, delegator, sign(t, testChainID, logic, math.MaxUint64))
	assert.ErrorIs(t, err, ErrNonceMismatch)
	assert.Equal(t, uint64(math.MaxUint64), nonces.nonces[delegator])
}

func TestRegistry_StateError(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	nonces := newMockNonces()
	nonces.err = errors.New("disk gone")

	err := r.CheckAndConsume(nonces, delegator, sign(t, testChainID, logic, 0))
	assert.ErrorIs(t, err, nonces.err)
}

func TestRegistry_Authority(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)

	signer, err := r.Authority(sign(t, testChainID, types.ZeroAddress, 3))
	require.NoError(t, err)
	assert.Equal(t, delegator, signer)
}
