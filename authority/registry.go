package authority

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/dogechain-lab/smartwallet/types"
	"github.com/hashicorp/go-hclog"
)

var (
	ErrChainMismatch = errors.New("authorization chain id mismatch")
	ErrNonceMismatch = errors.New("authorization nonce mismatch")
	ErrBadSignature  = errors.New("invalid authorization signature")
)

// NonceState exposes the authorization nonce of accounts
type NonceState interface {
	GetNonce(addr types.Address) (uint64, error)
	IncrNonce(addr types.Address) error
}

// Registry decides whether an authorization is fresh for an account and
// consumes it by bumping the account nonce.
type Registry struct {
	logger   hclog.Logger
	chainID  *big.Int
	verifier *Verifier
}

func NewRegistry(logger hclog.Logger, chainID uint64, verifier *Verifier) *Registry {
	return &Registry{
		logger:   logger.Named("registry"),
		chainID:  new(big.Int).SetUint64(chainID),
		verifier: verifier,
	}
}

// ChainID returns the chain id authorizations are checked against
func (r *Registry) ChainID() uint64 {
	return r.chainID.Uint64()
}

// Authority recovers the account which signed auth
func (r *Registry) Authority(auth *types.Authorization) (types.Address, error) {
	return r.verifier.RecoverSigner(auth)
}

// CheckAndConsume validates chain, nonce and signature, in that order, and
// on success increments the nonce of account. Nothing is mutated on failure.
func (r *Registry) CheckAndConsume(state NonceState, account types.Address, auth *types.Authorization) error {
	if err := r.check(state, account, auth); err != nil {
		r.logger.Debug("authorization rejected", "account", account, "nonce", auth.Nonce, "err", err)

		return err
	}

	return state.IncrNonce(account)
}

// CheckChain accepts wildcard authorizations and those of the configured chain
func (r *Registry) CheckChain(auth *types.Authorization) error {
	if !auth.IsWildcard() && auth.ChainID.Cmp(r.chainID) != 0 {
		return fmt.Errorf("%w: have %s, want %s", ErrChainMismatch, auth.ChainID, r.chainID)
	}

	return nil
}

func (r *Registry) check(state NonceState, account types.Address, auth *types.Authorization) error {
	if auth == nil {
		return fmt.Errorf("%w: nil authorization", ErrBadSignature)
	}

	if err := r.CheckChain(auth); err != nil {
		return err
	}

	current, err := state.GetNonce(account)
	if err != nil {
		return err
	}

	if auth.Nonce != current {
		return fmt.Errorf("%w: have %d, want %d", ErrNonceMismatch, auth.Nonce, current)
	}

	// the nonce could not be incremented afterwards
	if current == math.MaxUint64 {
		return fmt.Errorf("%w: nonce %d exhausted", ErrNonceMismatch, current)
	}

	if !r.verifier.Verify(auth, account) {
		return ErrBadSignature
	}

	return nil
}
