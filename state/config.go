package state

import (
	"fmt"
)

// RevocationPolicy decides what revoking a delegation does to the owner latch
type RevocationPolicy string

const (
	// RevocationRetain keeps the owner across revocation
	RevocationRetain RevocationPolicy = "retain"
	// RevocationReset clears the owner together with the code
	RevocationReset RevocationPolicy = "reset"
)

// AtomicityPolicy decides whether a failing step rolls back the whole request
type AtomicityPolicy string

const (
	Independent AtomicityPolicy = "independent"
	Atomic      AtomicityPolicy = "atomic"
)

// Config is the executor configuration
type Config struct {
	ChainID uint64

	RevocationPolicy RevocationPolicy
	// InitAtomicity applies to the call bundled after the authorizations
	InitAtomicity AtomicityPolicy
	// BatchPolicy applies to the authorization list itself
	BatchPolicy AtomicityPolicy

	// RequireDeployedCode refuses delegations to a code ref nothing was
	// deployed under
	RequireDeployedCode bool

	// MaxParallel bounds SubmitAll, zero means unbounded
	MaxParallel int
}

func DefaultConfig() *Config {
	return &Config{
		ChainID:          2000,
		RevocationPolicy: RevocationRetain,
		InitAtomicity:    Independent,
		BatchPolicy:      Independent,
	}
}

// Validate fills empty policies with defaults and rejects unknown ones
func (c *Config) Validate() error {
	switch c.RevocationPolicy {
	case "":
		c.RevocationPolicy = RevocationRetain
	case RevocationRetain, RevocationReset:
	default:
		return fmt.Errorf("unknown revocation policy %q", c.RevocationPolicy)
	}

	for _, p := range []*AtomicityPolicy{&c.InitAtomicity, &c.BatchPolicy} {
		switch *p {
		case "":
			*p = Independent
		case Independent, Atomic:
		default:
			return fmt.Errorf("unknown atomicity policy %q", *p)
		}
	}

	if c.MaxParallel < 0 {
		return fmt.Errorf("invalid max parallel %d", c.MaxParallel)
	}

	return nil
}
