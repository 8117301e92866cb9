package crypto

import (
	"math/big"
	"testing"

	"github.com/dogechain-lab/smartwallet/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// well known development keys
	executorKeyHex  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	delegatorKeyHex = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

func TestGetAddressFromKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key  string
		addr types.Address
	}{
		{executorKeyHex, types.StringToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")},
		{delegatorKeyHex, types.StringToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")},
	}

	for _, c := range cases {
		assert.Equal(t, c.addr, GetAddressFromKey(MustParsePrivateKey(c.key)))
	}
}

func TestSignAndRecover(t *testing.T) {
	t.Parallel()

	key, err := GenerateKey()
	require.NoError(t, err)

	hash := Keccak256([]byte("hello"))

	sig, err := Sign(key, hash)
	require.NoError(t, err)
	require.Len(t, sig, types.SignatureLength)
	assert.LessOrEqual(t, sig[64], byte(1))

	addr, err := Ecrecover(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, GetAddressFromKey(key), addr)
}

func TestEcrecover_Malformed(t *testing.T) {
	t.Parallel()

	hash := Keccak256([]byte("hello"))

	_, err := Ecrecover(hash, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)

	zero := make([]byte, types.SignatureLength)
	_, err = Ecrecover(hash, zero)
	assert.ErrorIs(t, err, ErrInvalidSignatureValues)

	key, err := GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(key, hash)
	require.NoError(t, err)

	sig[64] = 4
	_, err = Ecrecover(hash, sig)
	assert.ErrorIs(t, err, ErrInvalidSignatureValues)
}

func TestValidateSignatureValues(t *testing.T) {
	t.Parallel()

	highS := new(big.Int).Add(secp256k1HalfN, one)

	cases := []struct {
		v     byte
		r, s  *big.Int
		valid bool
	}{
		{0, one, one, true},
		{1, one, secp256k1HalfN, true},
		{2, one, one, false},
		{0, big.NewInt(0), one, false},
		{0, one, big.NewInt(0), false},
		{0, one, highS, false},
		{0, secp256k1NInt, one, false},
		{0, nil, one, false},
	}

	for i, c := range cases {
		assert.Equal(t, c.valid, ValidateSignatureValues(c.v, c.r, c.s), "case %d", i)
	}
}

func TestSignAuthorization(t *testing.T) {
	t.Parallel()

	key := MustParsePrivateKey(delegatorKeyHex)
	target := types.StringToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	auth, err := SignAuthorization(key, big.NewInt(31337), target, 0)
	require.NoError(t, err)

	authority, err := RecoverAuthority(auth)
	require.NoError(t, err)
	assert.Equal(t, GetAddressFromKey(key), authority)

	// a tampered tuple recovers some other account
	auth.Nonce = 1
	authority, err = RecoverAuthority(auth)
	if err == nil {
		assert.NotEqual(t, GetAddressFromKey(key), authority)
	}
}

func TestParsePrivateKey_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParsePrivateKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = ParsePrivateKey(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}
