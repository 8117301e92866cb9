// Package smartwallet encodes and decodes call data of the delegated
// smart wallet logic: initialize(address) and owner().
package smartwallet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dogechain-lab/smartwallet/crypto"
	"github.com/dogechain-lab/smartwallet/types"
	"github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"
)

var (
	ErrUnknownSelector = errors.New("unknown method selector")
	ErrInvalidCallData = errors.New("invalid call data")
)

const (
	selectorLength = 4
	wordLength     = 32
)

var (
	InitializeSelector = methodID("initialize(address)")
	OwnerSelector      = methodID("owner()")

	ownerArgs = abi.MustNewType("tuple(address owner)")
)

func methodID(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:selectorLength]
}

type Method int

const (
	MethodInitialize Method = iota
	MethodOwner
)

func (m Method) String() string {
	switch m {
	case MethodInitialize:
		return "initialize"
	case MethodOwner:
		return "owner"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Call is decoded call data
type Call struct {
	Method Method
	Owner  types.Address // initialize only
}

func encodeOwner(owner types.Address) ([]byte, error) {
	return abi.Encode(map[string]interface{}{
		"owner": web3.Address(owner),
	}, ownerArgs)
}

func decodeOwner(data []byte) (types.Address, error) {
	if len(data) != wordLength {
		return types.ZeroAddress, fmt.Errorf("%w: expected %d argument bytes, got %d",
			ErrInvalidCallData, wordLength, len(data))
	}

	// the upper 12 bytes of an address word must be clean
	if !bytes.Equal(data[:wordLength-types.AddressLength], make([]byte, wordLength-types.AddressLength)) {
		return types.ZeroAddress, fmt.Errorf("%w: dirty address word", ErrInvalidCallData)
	}

	raw, err := abi.Decode(ownerArgs, data)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("%w: %v", ErrInvalidCallData, err)
	}

	args, ok := raw.(map[string]interface{})
	if !ok {
		return types.ZeroAddress, ErrInvalidCallData
	}

	owner, ok := args["owner"].(web3.Address)
	if !ok {
		return types.ZeroAddress, ErrInvalidCallData
	}

	return types.Address(owner), nil
}

// EncodeInitialize builds the call data of initialize(owner)
func EncodeInitialize(owner types.Address) ([]byte, error) {
	args, err := encodeOwner(owner)
	if err != nil {
		return nil, err
	}

	return append(append([]byte{}, InitializeSelector...), args...), nil
}

// EncodeOwner builds the call data of owner()
func EncodeOwner() []byte {
	return append([]byte{}, OwnerSelector...)
}

// EncodeOwnerResult encodes the return data of owner()
func EncodeOwnerResult(owner types.Address) ([]byte, error) {
	return encodeOwner(owner)
}

// DecodeOwnerResult decodes the return data of owner()
func DecodeOwnerResult(output []byte) (types.Address, error) {
	return decodeOwner(output)
}

// DecodeCall parses call data addressed to the wallet logic
func DecodeCall(input []byte) (*Call, error) {
	if len(input) < selectorLength {
		return nil, fmt.Errorf("%w: missing selector", ErrInvalidCallData)
	}

	sel, args := input[:selectorLength], input[selectorLength:]

	switch {
	case bytes.Equal(sel, InitializeSelector):
		owner, err := decodeOwner(args)
		if err != nil {
			return nil, err
		}

		return &Call{Method: MethodInitialize, Owner: owner}, nil
	case bytes.Equal(sel, OwnerSelector):
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: owner() takes no arguments", ErrInvalidCallData)
		}

		return &Call{Method: MethodOwner}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownSelector, sel)
	}
}
