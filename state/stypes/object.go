package stypes

import (
	"github.com/dogechain-lab/smartwallet/types"
)

// Object is a dirty account produced by a committed transaction
type Object struct {
	Address types.Address
	Account *Account
}
