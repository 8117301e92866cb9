package stypes

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/smartwallet/types"
)

// Latch is the one-way initialization state of a delegated account. The zero
// value is uninitialized. An initialized latch always carries its owner.
type Latch struct {
	owner *types.Address
}

// InitializedBy returns a latch set by owner
func InitializedBy(owner types.Address) Latch {
	return Latch{owner: &owner}
}

func (l Latch) IsInitialized() bool {
	return l.owner != nil
}

// Owner returns the owner and whether the latch is set
func (l Latch) Owner() (types.Address, bool) {
	if l.owner == nil {
		return types.ZeroAddress, false
	}

	return *l.owner, true
}

func (l Latch) String() string {
	if owner, ok := l.Owner(); ok {
		return "initialized(" + owner.String() + ")"
	}

	return "uninitialized"
}

// Account is the delegation record of an address
type Account struct {
	Nonce   uint64
	CodeRef types.Address // zero when the account is not delegated
	Latch   Latch
}

// Delegated reports whether the account currently points at code
func (a *Account) Delegated() bool {
	return a.CodeRef != types.ZeroAddress
}

// Empty reports whether the account is indistinguishable from a never seen one
func (a *Account) Empty() bool {
	return a.Nonce == 0 && !a.Delegated() && !a.Latch.IsInitialized()
}

func (a *Account) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(a.Nonce))
	v.Set(ar.NewBytes(a.CodeRef.Bytes()))

	if owner, ok := a.Latch.Owner(); ok {
		v.Set(ar.NewBytes(owner.Bytes()))
	} else {
		v.Set(ar.NewNull())
	}

	return v
}

var accountArenaPool fastrlp.ArenaPool

func (a *Account) MarshalRLPTo(dst []byte) []byte {
	ar := accountArenaPool.Get()
	dst = a.MarshalWith(ar).MarshalTo(dst)
	accountArenaPool.Put(ar)

	return dst
}

var accountParserPool fastrlp.ParserPool

func (a *Account) UnmarshalRLP(b []byte) error {
	p := accountParserPool.Get()
	defer accountParserPool.Put(p)

	v, err := p.Parse(b)
	if err != nil {
		return err
	}

	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 3 {
		return fmt.Errorf("incorrect number of elements to decode account, expected 3 but found %d",
			len(elems))
	}

	// nonce
	if a.Nonce, err = elems[0].GetUint64(); err != nil {
		return err
	}

	// code reference
	ref, err := elems[1].GetBytes(nil)
	if err != nil {
		return err
	}

	if len(ref) != types.AddressLength {
		return fmt.Errorf("incorrect code reference length %d", len(ref))
	}

	a.CodeRef = types.BytesToAddress(ref)

	// latch
	owner, err := elems[2].GetBytes(nil)
	if err != nil {
		return err
	}

	switch len(owner) {
	case 0:
		a.Latch = Latch{}
	case types.AddressLength:
		a.Latch = InitializedBy(types.BytesToAddress(owner))
	default:
		return fmt.Errorf("incorrect owner length %d", len(owner))
	}

	return nil
}

func (a *Account) String() string {
	return fmt.Sprintf("%d %s %s", a.Nonce, a.CodeRef, a.Latch)
}

// Copy returns a deep copy, the latch owner included
func (a *Account) Copy() *Account {
	aa := &Account{
		Nonce:   a.Nonce,
		CodeRef: a.CodeRef,
	}

	if owner, ok := a.Latch.Owner(); ok {
		aa.Latch = InitializedBy(owner)
	}

	return aa
}
