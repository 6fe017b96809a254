package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"ftl/types"
)

// ComputeStateDigest computes a deterministic hash over a set of balances.
// Each record is encoded as: len(address)|address|balance(32B BE).
// Accounts are sorted by address for determinism, so the digest depends only
// on ledger contents, never on iteration order.
func ComputeStateDigest(accounts []*types.Account) [32]byte {
	if len(accounts) == 0 {
		return [32]byte{}
	}
	h := sha256.New()

	sorted := make([]*types.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})

	buf := make([]byte, 8)
	for _, acc := range sorted {
		binary.BigEndian.PutUint64(buf, uint64(len(acc.Address)))
		h.Write(buf)
		h.Write([]byte(acc.Address))
		balance := acc.Balance.Bytes32()
		h.Write(balance[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// CombineStateDigest chains a previous digest with the digest of the state
// after a mutation: new = SHA256(prev || next). If prev is zero, returns next.
func CombineStateDigest(prev [32]byte, next [32]byte) [32]byte {
	if isZeroDigest(prev) {
		return next
	}
	h := sha256.New()
	h.Write(prev[:])
	h.Write(next[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func isZeroDigest(d [32]byte) bool {
	for _, b := range d {
		if b != 0 {
			return false
		}
	}
	return true
}
