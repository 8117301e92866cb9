package types

import (
	"fmt"
	"math/big"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/smartwallet/helper/keccak"
)

// SetCodeMagic prefixes the payload signed by an authorization (EIP-7702)
const SetCodeMagic byte = 0x05

// SignatureLength is the length of a serialized r || s || v signature
const SignatureLength = 65

// DelegationPrefix starts the code reported for a delegated account
var DelegationPrefix = []byte{0xef, 0x01, 0x00}

// Authorization is a signed consent of an account to run the code deployed at
// Address. A zero Address revokes the current delegation and a zero ChainID
// makes the authorization valid on any chain.
type Authorization struct {
	ChainID *big.Int
	Address Address
	Nonce   uint64
	V       uint8 // y parity, 0 or 1
	R       *big.Int
	S       *big.Int
}

// IsRevocation reports whether the authorization clears the delegation
func (a *Authorization) IsRevocation() bool {
	return a.Address == ZeroAddress
}

// IsWildcard reports whether the authorization is valid on every chain
func (a *Authorization) IsWildcard() bool {
	return a.ChainID == nil || a.ChainID.Sign() == 0
}

func (a *Authorization) chainID() *big.Int {
	if a.ChainID == nil {
		return new(big.Int)
	}

	return a.ChainID
}

// MarshalSigningRLPWith encodes the signed part [chain_id, address, nonce]
func (a *Authorization) MarshalSigningRLPWith(ar *fastrlp.Arena) *fastrlp.Value {
	vv := ar.NewArray()
	vv.Set(ar.NewBigInt(a.chainID()))
	vv.Set(ar.NewBytes(a.Address.Bytes()))
	vv.Set(ar.NewUint(a.Nonce))

	return vv
}

// MarshalRLPWith encodes the full tuple [chain_id, address, nonce, y_parity, r, s]
func (a *Authorization) MarshalRLPWith(ar *fastrlp.Arena) *fastrlp.Value {
	vv := ar.NewArray()
	vv.Set(ar.NewBigInt(a.chainID()))
	vv.Set(ar.NewBytes(a.Address.Bytes()))
	vv.Set(ar.NewUint(a.Nonce))
	vv.Set(ar.NewUint(uint64(a.V)))
	vv.Set(ar.NewBigInt(bigOrZero(a.R)))
	vv.Set(ar.NewBigInt(bigOrZero(a.S)))

	return vv
}

func (a *Authorization) MarshalRLPTo(dst []byte) []byte {
	return MarshalRLPTo(a.MarshalRLPWith, dst)
}

func (a *Authorization) MarshalRLP() []byte {
	return a.MarshalRLPTo(nil)
}

func (a *Authorization) UnmarshalRLP(input []byte) error {
	return UnmarshalRlp(a.unmarshalRLPFrom, input)
}

func (a *Authorization) unmarshalRLPFrom(_ *fastrlp.Parser, v *fastrlp.Value) error {
	elems, err := expectElems(v, 6, "authorization")
	if err != nil {
		return err
	}

	a.ChainID = new(big.Int)
	if err := elems[0].GetBigInt(a.ChainID); err != nil {
		return err
	}

	addr, err := elems[1].GetBytes(nil)
	if err != nil {
		return err
	}

	if len(addr) != AddressLength {
		return fmt.Errorf("incorrect address length %d", len(addr))
	}

	a.Address = BytesToAddress(addr)

	if a.Nonce, err = elems[2].GetUint64(); err != nil {
		return err
	}

	parity, err := elems[3].GetUint64()
	if err != nil {
		return err
	}

	if parity > 1 {
		return fmt.Errorf("invalid y parity %d", parity)
	}

	a.V = uint8(parity)

	a.R = new(big.Int)
	if err := elems[4].GetBigInt(a.R); err != nil {
		return err
	}

	a.S = new(big.Int)
	if err := elems[5].GetBigInt(a.S); err != nil {
		return err
	}

	return nil
}

// SigningHash is the digest the authority signs:
// keccak256(SetCodeMagic || rlp([chain_id, address, nonce]))
func (a *Authorization) SigningHash() (h Hash) {
	ar := marshalArenaPool.Get()
	hash := keccak.DefaultKeccakPool.Get()

	defer func() {
		keccak.DefaultKeccakPool.Put(hash)
		marshalArenaPool.Put(ar)
	}()

	hash.WritePrefixedRlp(h[:0], SetCodeMagic, a.MarshalSigningRLPWith(ar))

	return h
}

// Hash identifies the signed tuple, signature included
func (a *Authorization) Hash() (h Hash) {
	ar := marshalArenaPool.Get()
	hash := keccak.DefaultKeccakPool.Get()

	defer func() {
		keccak.DefaultKeccakPool.Put(hash)
		marshalArenaPool.Put(ar)
	}()

	hash.WriteRlp(h[:0], a.MarshalRLPWith(ar))

	return h
}

// Signature returns the 65 byte r || s || v form, or nil when r or s
// do not fit in 32 bytes.
func (a *Authorization) Signature() []byte {
	if a.R == nil || a.S == nil || a.R.Sign() < 0 || a.S.Sign() < 0 ||
		a.R.BitLen() > 256 || a.S.BitLen() > 256 {
		return nil
	}

	sig := make([]byte, SignatureLength)
	a.R.FillBytes(sig[0:32])
	a.S.FillBytes(sig[32:64])
	sig[64] = a.V

	return sig
}

// SetSignature splits a 65 byte r || s || v signature into the tuple
func (a *Authorization) SetSignature(sig []byte) error {
	if len(sig) != SignatureLength {
		return fmt.Errorf("invalid signature length %d", len(sig))
	}

	if sig[64] > 1 {
		return fmt.Errorf("invalid y parity %d", sig[64])
	}

	a.R = new(big.Int).SetBytes(sig[0:32])
	a.S = new(big.Int).SetBytes(sig[32:64])
	a.V = sig[64]

	return nil
}

// Copy returns a deep copy
func (a *Authorization) Copy() *Authorization {
	aa := &Authorization{
		Address: a.Address,
		Nonce:   a.Nonce,
		V:       a.V,
	}

	if a.ChainID != nil {
		aa.ChainID = new(big.Int).Set(a.ChainID)
	}

	if a.R != nil {
		aa.R = new(big.Int).Set(a.R)
	}

	if a.S != nil {
		aa.S = new(big.Int).Set(a.S)
	}

	return aa
}

// DelegationCode returns the code reported for an account delegated to target
func DelegationCode(target Address) []byte {
	if target == ZeroAddress {
		return nil
	}

	code := make([]byte, 0, len(DelegationPrefix)+AddressLength)
	code = append(code, DelegationPrefix...)

	return append(code, target.Bytes()...)
}

// ParseDelegation extracts the target from delegation code
func ParseDelegation(code []byte) (Address, bool) {
	if len(code) != len(DelegationPrefix)+AddressLength {
		return ZeroAddress, false
	}

	for i, b := range DelegationPrefix {
		if code[i] != b {
			return ZeroAddress, false
		}
	}

	return BytesToAddress(code[len(DelegationPrefix):]), true
}

func bigOrZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}

	return b
}
