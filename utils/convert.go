package utils

import (
	"github.com/holiman/uint256"
)

// Uint256ToString encodes an amount as a decimal string for storage and wire use.
// A nil amount encodes as "0".
func Uint256ToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// Uint256FromString decodes a decimal amount string. Invalid or empty input
// decodes as zero; stored values are always written by Uint256ToString so a
// decode failure only occurs on hand-edited data.
func Uint256FromString(s string) *uint256.Int {
	if s == "" {
		return uint256.NewInt(0)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.NewInt(0)
	}
	return v
}

// ParseAmount parses a user-supplied decimal amount, allowing underscore
// grouping separators ("1_000_000").
func ParseAmount(s string) (*uint256.Int, error) {
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			continue
		}
		clean = append(clean, s[i])
	}
	return uint256.FromDecimal(string(clean))
}
