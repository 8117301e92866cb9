package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var target = StringToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func signedAuthorization() *Authorization {
	return &Authorization{
		ChainID: big.NewInt(31337),
		Address: target,
		Nonce:   7,
		V:       1,
		R:       big.NewInt(0x1234),
		S:       big.NewInt(0x5678),
	}
}

func TestAuthorization_RLPRoundTrip(t *testing.T) {
	t.Parallel()

	auth := signedAuthorization()

	decoded := new(Authorization)
	require.NoError(t, decoded.UnmarshalRLP(auth.MarshalRLP()))

	assert.Equal(t, auth.ChainID, decoded.ChainID)
	assert.Equal(t, auth.Address, decoded.Address)
	assert.Equal(t, auth.Nonce, decoded.Nonce)
	assert.Equal(t, auth.V, decoded.V)
	assert.Equal(t, auth.R, decoded.R)
	assert.Equal(t, auth.S, decoded.S)
	assert.Equal(t, auth.Hash(), decoded.Hash())
}

func TestAuthorization_UnmarshalRejectsBadParity(t *testing.T) {
	t.Parallel()

	auth := signedAuthorization()
	auth.V = 2

	assert.Error(t, new(Authorization).UnmarshalRLP(auth.MarshalRLP()))
}

func TestAuthorization_SigningHashIgnoresSignature(t *testing.T) {
	t.Parallel()

	a := signedAuthorization()
	b := a.Copy()
	b.R = big.NewInt(1)
	b.V = 0

	assert.Equal(t, a.SigningHash(), b.SigningHash())
	assert.NotEqual(t, a.Hash(), b.Hash())

	b.Nonce++
	assert.NotEqual(t, a.SigningHash(), b.SigningHash())
}

func TestAuthorization_WildcardChain(t *testing.T) {
	t.Parallel()

	a := signedAuthorization()
	assert.False(t, a.IsWildcard())

	a.ChainID = nil
	assert.True(t, a.IsWildcard())

	// nil and zero chain ids sign the same payload
	b := a.Copy()
	b.ChainID = big.NewInt(0)
	assert.Equal(t, a.SigningHash(), b.SigningHash())
}

func TestAuthorization_Signature(t *testing.T) {
	t.Parallel()

	a := signedAuthorization()

	sig := a.Signature()
	require.Len(t, sig, SignatureLength)

	b := &Authorization{}
	require.NoError(t, b.SetSignature(sig))
	assert.Equal(t, a.R, b.R)
	assert.Equal(t, a.S, b.S)
	assert.Equal(t, a.V, b.V)

	a.R = nil
	assert.Nil(t, a.Signature())

	assert.Error(t, b.SetSignature(sig[:64]))
}

func TestDelegationCode(t *testing.T) {
	t.Parallel()

	code := DelegationCode(target)
	assert.Equal(t, []byte{0xef, 0x01, 0x00}, code[:3])

	got, ok := ParseDelegation(code)
	assert.True(t, ok)
	assert.Equal(t, target, got)

	assert.Nil(t, DelegationCode(ZeroAddress))

	_, ok = ParseDelegation([]byte{0x60, 0x80})
	assert.False(t, ok)
}
