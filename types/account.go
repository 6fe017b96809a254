package types

import (
	"github.com/holiman/uint256"
)

// Account pairs an address with its current balance. Addresses are opaque
// strings (base58-encoded ed25519 public keys everywhere in this codebase,
// though nothing below the identity layer depends on that).
type Account struct {
	Address string       `json:"address"`
	Balance *uint256.Int `json:"balance"`
}
