package smartwallet

import (
	"testing"

	"github.com/dogechain-lab/smartwallet/helper/hex"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = types.StringToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

func TestSelectors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0xc4d66de8", hex.EncodeToHex(InitializeSelector))
	assert.Equal(t, "0x8da5cb5b", hex.EncodeToHex(OwnerSelector))
}

func TestEncodeInitialize(t *testing.T) {
	t.Parallel()

	input, err := EncodeInitialize(owner)
	require.NoError(t, err)

	assert.Equal(t,
		"0xc4d66de800000000000000000000000070997970c51812dc3a010c7d01b50e0d17dc79c8",
		hex.EncodeToHex(input),
	)

	call, err := DecodeCall(input)
	require.NoError(t, err)
	assert.Equal(t, MethodInitialize, call.Method)
	assert.Equal(t, owner, call.Owner)
}

func TestDecodeCall_Owner(t *testing.T) {
	t.Parallel()

	call, err := DecodeCall(EncodeOwner())
	require.NoError(t, err)
	assert.Equal(t, MethodOwner, call.Method)
	assert.Equal(t, "owner", call.Method.String())

	_, err = DecodeCall(append(EncodeOwner(), 0x01))
	assert.ErrorIs(t, err, ErrInvalidCallData)
}

func TestDecodeCall_Invalid(t *testing.T) {
	t.Parallel()

	valid, err := EncodeInitialize(owner)
	require.NoError(t, err)

	dirty := append([]byte{}, valid...)
	dirty[4] = 0x01

	cases := []struct {
		name  string
		input []byte
		err   error
	}{
		{"empty", nil, ErrInvalidCallData},
		{"short selector", []byte{0xc4, 0xd6}, ErrInvalidCallData},
		{"unknown selector", []byte{0xde, 0xad, 0xbe, 0xef}, ErrUnknownSelector},
		{"missing argument", InitializeSelector, ErrInvalidCallData},
		{"truncated argument", valid[:len(valid)-1], ErrInvalidCallData},
		{"dirty word", dirty, ErrInvalidCallData},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeCall(c.input)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestOwnerResult(t *testing.T) {
	t.Parallel()

	out, err := EncodeOwnerResult(owner)
	require.NoError(t, err)
	assert.Len(t, out, 32)

	got, err := DecodeOwnerResult(out)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}
