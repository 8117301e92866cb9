package rawdb

import (
	"github.com/dogechain-lab/smartwallet/types"
)

// key prefixes of the account database
var (
	// accountPrefix + address -> rlp encoded account record
	accountPrefix = []byte("a")
	// codePrefix + code reference -> deployed code image
	codePrefix = []byte("code")
)

// accountKey = accountPrefix + address
func accountKey(addr types.Address) []byte {
	return append(append([]byte{}, accountPrefix...), addr.Bytes()...)
}

// codeKey = codePrefix + code reference
func codeKey(ref types.Address) []byte {
	return append(append([]byte{}, codePrefix...), ref.Bytes()...)
}
