package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/dogechain-lab/smartwallet/helper/hex"
	"github.com/dogechain-lab/smartwallet/helper/keccak"
	"github.com/dogechain-lab/smartwallet/types"
)

// S256 is the secp256k1 elliptic curve
var S256 = btcec.S256()

var (
	secp256k1N     = hex.MustDecodeHex("0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")
	secp256k1NInt  = new(big.Int).SetBytes(secp256k1N)
	secp256k1HalfN = new(big.Int).Div(secp256k1NInt, big.NewInt(2))
	one            = big.NewInt(1)
)

var (
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSignatureValues = errors.New("invalid signature values")
	ErrInvalidPrivateKey      = errors.New("invalid private key")
)

// ValidateSignatureValues checks if the signature values are correct.
// Only low s values are accepted (EIP-2).
func ValidateSignatureValues(v byte, r, s *big.Int) bool {
	if r == nil || s == nil {
		return false
	}

	// v must be 0 or 1
	if v > 1 {
		return false
	}

	// r & s must be in range [1, secp256k1n - 1]
	if r.Cmp(one) < 0 || s.Cmp(one) < 0 {
		return false
	}

	if r.Cmp(secp256k1NInt) >= 0 {
		return false
	}

	return s.Cmp(secp256k1HalfN) <= 0
}

// Keccak256 calculates the Keccak256
func Keccak256(v ...[]byte) []byte {
	h := keccak.DefaultKeccakPool.Get()
	for _, i := range v {
		h.Write(i) //nolint:errcheck
	}

	res := h.Sum(nil)
	keccak.DefaultKeccakPool.Put(h)

	return res
}

// GenerateKey generates a new secp256k1 private key
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(S256, rand.Reader)
}

// ParsePrivateKey parses bytes into a private key
func ParsePrivateKey(buf []byte) (*ecdsa.PrivateKey, error) {
	if len(buf) != 32 {
		return nil, ErrInvalidPrivateKey
	}

	prv, _ := btcec.PrivKeyFromBytes(S256, buf)

	if prv.D.Sign() == 0 || prv.D.Cmp(secp256k1NInt) >= 0 {
		return nil, ErrInvalidPrivateKey
	}

	return prv.ToECDSA(), nil
}

// MustParsePrivateKey parses a hex encoded private key and panics on failure
func MustParsePrivateKey(str string) *ecdsa.PrivateKey {
	buf, err := hex.DecodeHex(str)
	if err != nil {
		panic(fmt.Errorf("failed to decode private key: %w", err))
	}

	key, err := ParsePrivateKey(buf)
	if err != nil {
		panic(err)
	}

	return key
}

// MarshalPublicKey marshals a public key on the secp256k1 elliptic curve
// in the uncompressed 65 byte form.
func MarshalPublicKey(pub *ecdsa.PublicKey) []byte {
	return (*btcec.PublicKey)(pub).SerializeUncompressed()
}

// PubKeyToAddress returns the Ethereum address of a public key
func PubKeyToAddress(pub *ecdsa.PublicKey) types.Address {
	buf := Keccak256(MarshalPublicKey(pub)[1:])[12:]

	return types.BytesToAddress(buf)
}

// GetAddressFromKey extracts an address from the private key
func GetAddressFromKey(key *ecdsa.PrivateKey) types.Address {
	return PubKeyToAddress(&key.PublicKey)
}

// RecoverPubkey verifies the compact signature "signature" of "hash" for the
// secp256k1 curve. The signature is r || s || v with v in {0, 1}.
func RecoverPubkey(signature, hash []byte) (*ecdsa.PublicKey, error) {
	if len(signature) != types.SignatureLength {
		return nil, ErrInvalidSignatureLength
	}

	size := len(signature)
	term := byte(27)

	// Make sure the signature is present
	if signature[size-1] == 1 {
		term = 28
	}

	sig := append([]byte{term}, signature[:size-1]...)

	pub, _, err := btcec.RecoverCompact(S256, sig, hash)
	if err != nil {
		return nil, err
	}

	return pub.ToECDSA(), nil
}

// Ecrecover recovers the address which produced signature over hash
func Ecrecover(hash, sig []byte) (types.Address, error) {
	if len(sig) != types.SignatureLength {
		return types.ZeroAddress, ErrInvalidSignatureLength
	}

	if !ValidateSignatureValues(
		sig[64],
		new(big.Int).SetBytes(sig[0:32]),
		new(big.Int).SetBytes(sig[32:64]),
	) {
		return types.ZeroAddress, ErrInvalidSignatureValues
	}

	pub, err := RecoverPubkey(sig, hash)
	if err != nil {
		return types.ZeroAddress, err
	}

	return PubKeyToAddress(pub), nil
}

// Sign produces a compact signature of the data in hash with the given
// private key on the secp256k1 curve. The result is r || s || v.
func Sign(priv *ecdsa.PrivateKey, hash []byte) ([]byte, error) {
	sig, err := btcec.SignCompact(S256, (*btcec.PrivateKey)(priv), hash, false)
	if err != nil {
		return nil, err
	}

	// Convert to Ethereum signature format with 'recovery id' v at the end.
	v := sig[0] - 27
	copy(sig, sig[1:])
	sig[64] = v

	return sig, nil
}
