package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	c := &Config{ChainID: 1}
	require.NoError(t, c.Validate())

	assert.Equal(t, RevocationRetain, c.RevocationPolicy)
	assert.Equal(t, Independent, c.InitAtomicity)
	assert.Equal(t, Independent, c.BatchPolicy)

	cases := []*Config{
		{RevocationPolicy: "forget"},
		{InitAtomicity: "sometimes"},
		{BatchPolicy: "all"},
		{MaxParallel: -1},
	}

	for _, c := range cases {
		assert.Error(t, c.Validate())
	}

	assert.NoError(t, DefaultConfig().Validate())
}
