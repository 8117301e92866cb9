package state

import (
	"errors"

	"github.com/dogechain-lab/smartwallet/state/stypes"
	"github.com/dogechain-lab/smartwallet/types"
)

var (
	ErrAlreadyInitialized = errors.New("account already initialized")
	ErrNoCode             = errors.New("account has no code")
	ErrZeroOwner          = errors.New("owner is the zero address")
)

// guardInitialize sets the owner of account exactly once. The account must be
// delegated, there is nothing to run initialize on otherwise. A zero owner
// is refused before the latch is looked at.
func guardInitialize(txn *Txn, account types.Address, owner types.Address) error {
	if owner == types.ZeroAddress {
		return ErrZeroOwner
	}

	ref, err := txn.GetCode(account)
	if err != nil {
		return err
	}

	if ref == types.ZeroAddress {
		return ErrNoCode
	}

	initialized, err := txn.IsInitialized(account)
	if err != nil {
		return err
	}

	if initialized {
		return ErrAlreadyInitialized
	}

	return txn.setLatch(account, stypes.InitializedBy(owner))
}
