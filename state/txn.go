package state

import (
	"github.com/dogechain-lab/smartwallet/state/stypes"
	"github.com/dogechain-lab/smartwallet/types"
	iradix "github.com/hashicorp/go-immutable-radix"
)

// accountReader is the committed state a transaction reads through
type accountReader interface {
	GetAccount(addr types.Address) (*stypes.Account, error)
	HasCode(ref types.Address) (bool, error)
}

// Txn buffers account writes in an immutable radix tree. Nothing is visible
// to the store until Commit, and any point can be snapshotted and reverted.
type Txn struct {
	reader    accountReader
	snapshots []*iradix.Tree
	txn       *iradix.Txn
}

func newTxn(reader accountReader) *Txn {
	return &Txn{
		reader:    reader,
		snapshots: []*iradix.Tree{},
		txn:       iradix.New().Txn(),
	}
}

// Snapshot takes a snapshot at this point in time
func (txn *Txn) Snapshot() int {
	t := txn.txn.CommitOnly()

	id := len(txn.snapshots)
	txn.snapshots = append(txn.snapshots, t)

	return id
}

// RevertToSnapshot reverts to a given snapshot
func (txn *Txn) RevertToSnapshot(id int) {
	if id >= len(txn.snapshots) {
		panic("state: unknown snapshot id")
	}

	txn.txn = txn.snapshots[id].Txn()
}

// getAccount returns the account as seen by this transaction. The returned
// record is shared with the tree and must not be modified.
func (txn *Txn) getAccount(addr types.Address) (*stypes.Account, error) {
	if val, exists := txn.txn.Get(addr.Bytes()); exists {
		return val.(*stypes.Account), nil //nolint:forcetypeassert
	}

	return txn.reader.GetAccount(addr)
}

// upsertAccount applies f to a copy of the account and stores the copy
func (txn *Txn) upsertAccount(addr types.Address, f func(account *stypes.Account)) error {
	account, err := txn.getAccount(addr)
	if err != nil {
		return err
	}

	account = account.Copy()
	f(account)

	txn.txn.Insert(addr.Bytes(), account)

	return nil
}

// GetNonce returns the authorization nonce of addr
func (txn *Txn) GetNonce(addr types.Address) (uint64, error) {
	account, err := txn.getAccount(addr)
	if err != nil {
		return 0, err
	}

	return account.Nonce, nil
}

// IncrNonce consumes one authorization nonce of addr
func (txn *Txn) IncrNonce(addr types.Address) error {
	return txn.upsertAccount(addr, func(account *stypes.Account) {
		account.Nonce++
	})
}

// GetCode returns the code reference of addr, zero when not delegated
func (txn *Txn) GetCode(addr types.Address) (types.Address, error) {
	account, err := txn.getAccount(addr)
	if err != nil {
		return types.ZeroAddress, err
	}

	return account.CodeRef, nil
}

// SetCode points addr at ref, a zero ref clears the delegation
func (txn *Txn) SetCode(addr types.Address, ref types.Address) error {
	return txn.upsertAccount(addr, func(account *stypes.Account) {
		account.CodeRef = ref
	})
}

// HasCodeImage reports whether ref names deployed code
func (txn *Txn) HasCodeImage(ref types.Address) (bool, error) {
	return txn.reader.HasCode(ref)
}

// GetOwner returns the owner recorded by the initialization latch
func (txn *Txn) GetOwner(addr types.Address) (types.Address, bool, error) {
	account, err := txn.getAccount(addr)
	if err != nil {
		return types.ZeroAddress, false, err
	}

	owner, ok := account.Latch.Owner()

	return owner, ok, nil
}

func (txn *Txn) IsInitialized(addr types.Address) (bool, error) {
	_, ok, err := txn.GetOwner(addr)

	return ok, err
}

// setLatch is reserved to the initialization guard and the reset revocation
func (txn *Txn) setLatch(addr types.Address, latch stypes.Latch) error {
	return txn.upsertAccount(addr, func(account *stypes.Account) {
		account.Latch = latch
	})
}

// Commit returns the accounts written by the transaction in address order
func (txn *Txn) Commit() []*stypes.Object {
	x := txn.txn.Commit()

	objs := []*stypes.Object{}

	x.Root().Walk(func(k []byte, v interface{}) bool {
		account, ok := v.(*stypes.Account)
		if !ok {
			return false
		}

		objs = append(objs, &stypes.Object{
			Address: types.BytesToAddress(k),
			Account: account.Copy(),
		})

		return false
	})

	return objs
}
