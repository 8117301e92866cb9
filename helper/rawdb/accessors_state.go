package rawdb

import (
	"github.com/dogechain-lab/smartwallet/helper/kvdb"
	"github.com/dogechain-lab/smartwallet/state/stypes"
	"github.com/dogechain-lab/smartwallet/types"
)

// ReadAccount retrieves the delegation record of addr. ErrNotFound is
// returned for an account never written.
func ReadAccount(db kvdb.KVReader, addr types.Address) (*stypes.Account, error) {
	account := new(stypes.Account)

	if err := readRLP(db, accountKey(addr), account); err != nil {
		return nil, err
	}

	return account, nil
}

// WriteAccount stores the delegation record of addr
func WriteAccount(db kvdb.KVWriter, addr types.Address, account *stypes.Account) error {
	return writeRLP(db, accountKey(addr), account)
}

// DeleteAccount removes the record of addr
func DeleteAccount(db kvdb.KVWriter, addr types.Address) error {
	return db.Delete(accountKey(addr))
}

// ReadCode retrieves the code image deployed at ref
func ReadCode(db kvdb.KVReader, ref types.Address) ([]byte, error) {
	data, ok, err := db.Get(codeKey(ref))
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}

	return data, nil
}

// HasCode checks whether code was deployed at ref
func HasCode(db kvdb.KVReader, ref types.Address) (bool, error) {
	return db.Has(codeKey(ref))
}

// WriteCode stores a code image under its reference
func WriteCode(db kvdb.KVWriter, ref types.Address, code []byte) error {
	return db.Set(codeKey(ref), code)
}

// IterateAccounts walks every stored account record in address order
func IterateAccounts(db kvdb.Iteratee, fn func(types.Address, *stypes.Account) bool) error {
	it := db.NewIterator(accountPrefix, nil)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if len(key) != len(accountPrefix)+types.AddressLength {
			continue
		}

		account := new(stypes.Account)
		if err := account.UnmarshalRLP(it.Value()); err != nil {
			return err
		}

		if !fn(types.BytesToAddress(key[len(accountPrefix):]), account) {
			break
		}
	}

	return it.Error()
}
