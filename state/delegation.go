package state

import (
	"errors"

	"github.com/dogechain-lab/smartwallet/state/stypes"
	"github.com/dogechain-lab/smartwallet/types"
)

var (
	// ErrAlreadyDelegatedToSameTarget is informational, the authorization
	// was still consumed.
	ErrAlreadyDelegatedToSameTarget = errors.New("account already delegated to target")
	ErrStoreUnavailable             = errors.New("account store unavailable")
	ErrUnknownCode                  = errors.New("no code deployed at target")
)

// IsFatal reports whether an authorization result is a failure
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrAlreadyDelegatedToSameTarget)
}

// applyAuthorization moves the code pointer of account to the authorization
// target. It runs only once the registry consumed the authorization.
func (t *Transition) applyAuthorization(account types.Address, auth *types.Authorization) error {
	if auth.IsRevocation() {
		return t.revoke(account)
	}

	target := auth.Address

	if t.config.RequireDeployedCode {
		deployed, err := t.txn.HasCodeImage(target)
		if err != nil {
			return err
		}

		if !deployed {
			return ErrUnknownCode
		}
	}

	current, err := t.txn.GetCode(account)
	if err != nil {
		return err
	}

	if current == target {
		return ErrAlreadyDelegatedToSameTarget
	}

	if err := t.txn.SetCode(account, target); err != nil {
		return err
	}

	t.logger.Debug("delegated", "account", account, "target", target)

	return nil
}

func (t *Transition) revoke(account types.Address) error {
	if err := t.txn.SetCode(account, types.ZeroAddress); err != nil {
		return err
	}

	if t.config.RevocationPolicy == RevocationReset {
		if err := t.txn.setLatch(account, stypes.Latch{}); err != nil {
			return err
		}
	}

	t.logger.Debug("revoked", "account", account, "policy", t.config.RevocationPolicy)

	return nil
}
