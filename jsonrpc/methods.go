package jsonrpc

import (
	"github.com/creachadair/jrpc2"
)

// JSON-RPC method name constants
const (
	// Read methods
	MethodGetTotalSupply = "token.gettotalsupply"
	MethodGetBalance     = "token.getbalance"
	MethodGetAllowance   = "token.getallowance"
	MethodGetLedgerInfo  = "token.getledgerinfo"

	// Mutating methods, signed payloads only
	MethodTransfer     = "token.transfer"
	MethodApprove      = "token.approve"
	MethodTransferFrom = "token.transferfrom"
)

// Application error codes, outside the reserved JSON-RPC range
const (
	CodeUnauthorized          jrpc2.Code = -32001
	CodeInvalidAmount         jrpc2.Code = -32002
	CodeInsufficientBalance   jrpc2.Code = -32010
	CodeInsufficientAllowance jrpc2.Code = -32011
	CodeInternal              jrpc2.Code = -32020
)
