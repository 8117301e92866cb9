package crypto

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/dogechain-lab/smartwallet/types"
)

// SignAuthorization signs the consent of key's account to adopt the code at target
// for the given account nonce. A zero chainID produces a wildcard authorization and
// a zero target a revocation.
func SignAuthorization(
	key *ecdsa.PrivateKey,
	chainID *big.Int,
	target types.Address,
	nonce uint64,
) (*types.Authorization, error) {
	auth := &types.Authorization{
		ChainID: new(big.Int),
		Address: target,
		Nonce:   nonce,
	}

	if chainID != nil {
		auth.ChainID.Set(chainID)
	}

	hash := auth.SigningHash()

	sig, err := Sign(key, hash.Bytes())
	if err != nil {
		return nil, err
	}

	if err := auth.SetSignature(sig); err != nil {
		return nil, err
	}

	return auth, nil
}

// RecoverAuthority returns the account which signed the authorization
func RecoverAuthority(auth *types.Authorization) (types.Address, error) {
	sig := auth.Signature()
	if sig == nil {
		return types.ZeroAddress, ErrInvalidSignatureValues
	}

	hash := auth.SigningHash()

	return Ecrecover(hash.Bytes(), sig)
}
