package authority

import (
	"fmt"

	"github.com/dogechain-lab/smartwallet/crypto"
	"github.com/dogechain-lab/smartwallet/types"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/atomic"
)

const DefaultSignerCacheSize = 4096

// Verifier recovers the account which signed an authorization.
// Recovered signers are memoized by tuple hash, the tuple hash covers
// the signature so a cached entry can never answer for another signature.
type Verifier struct {
	cache *lru.Cache

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewVerifier creates a verifier caching up to cacheSize signers
func NewVerifier(cacheSize int) (*Verifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultSignerCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Verifier{cache: cache}, nil
}

// RecoverSigner returns the signer of auth. Malformed signatures yield
// ErrBadSignature, never a panic.
func (v *Verifier) RecoverSigner(auth *types.Authorization) (types.Address, error) {
	if auth == nil {
		return types.ZeroAddress, fmt.Errorf("%w: nil authorization", ErrBadSignature)
	}

	key := auth.Hash()

	if signer, ok := v.cache.Get(key); ok {
		v.hits.Inc()

		return signer.(types.Address), nil //nolint:forcetypeassert
	}

	v.misses.Inc()

	signer, err := crypto.RecoverAuthority(auth)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	v.cache.Add(key, signer)

	return signer, nil
}

// Verify reports whether claimed signed auth
func (v *Verifier) Verify(auth *types.Authorization, claimed types.Address) bool {
	signer, err := v.RecoverSigner(auth)
	if err != nil {
		return false
	}

	return signer == claimed
}

// CacheStats returns the cache hit and miss counters
func (v *Verifier) CacheStats() (hits, misses uint64) {
	return v.hits.Load(), v.misses.Load()
}
