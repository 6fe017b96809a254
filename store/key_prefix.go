package store

// Declare database key prefixes for token records
const (
	PrefixBalance   = "balance:"
	PrefixAllowance = "allowance:"

	// separates owner and spender in an allowance key; addresses are
	// base58 so the separator can never appear inside one
	AllowanceKeySep = "|"

	KeyTotalSupply = "meta:total_supply"
	KeyDeployer    = "meta:deployer"
)
