package token

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"ftl/events"
	"ftl/ledger"
	"ftl/logx"
)

// Engine is the public operation surface of the token. Caller identity is an
// explicit parameter on every mutating operation; whoever hosts the engine
// (the RPC layer, a test) resolves identity before calling in. The engine
// never reads it from ambient state.
//
// Every operation validates all preconditions against current state before
// mutating anything, applies at most one atomic state change, and emits zero
// or one event through the router. The mutex serializes operations, standing
// in for the total-order execution the design assumes.
type Engine struct {
	mu          sync.Mutex
	ledger      *ledger.Ledger
	allowances  *ledger.AllowanceRegistry
	eventRouter *events.EventRouter
}

func NewEngine(l *ledger.Ledger, allowances *ledger.AllowanceRegistry, eventRouter *events.EventRouter) *Engine {
	return &Engine{
		ledger:      l,
		allowances:  allowances,
		eventRouter: eventRouter,
	}
}

// InitGenesis credits the entire initial supply to the deployer, pins total
// supply, and emits the genesis Transfer (empty source). Exactly one genesis
// ever succeeds against a given store; a reopened engine inherits the
// persisted supply instead.
func (e *Engine) InitGenesis(deployer string, initialSupply *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ledger.InitSupply(deployer, initialSupply); err != nil {
		return err
	}

	e.eventRouter.PublishTokenEvent(events.NewTransfer("", deployer, initialSupply))
	return nil
}

// Initialized reports whether genesis has run
func (e *Engine) Initialized() bool {
	return e.ledger.Initialized()
}

// TotalSupply returns the fixed total supply. Pure read.
func (e *Engine) TotalSupply() *uint256.Int {
	return e.ledger.TotalSupply()
}

// BalanceOf returns the balance of addr, zero for unknown addresses. Pure read.
func (e *Engine) BalanceOf(addr string) (*uint256.Int, error) {
	return e.ledger.BalanceOf(addr)
}

// Allowance returns the remaining grant from owner to spender. Pure read.
func (e *Engine) Allowance(owner string, spender string) (*uint256.Int, error) {
	return e.allowances.AllowanceOf(owner, spender)
}

// Transfer moves value from the caller to the recipient. Fails with
// ledger.ErrInsufficientBalance, leaving state untouched.
func (e *Engine) Transfer(caller string, to string, value *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.transferFromTo(caller, to, value)
}

// Approve replaces the grant from the caller to spender and emits Approval.
// It never fails on domain grounds: there is no precondition on the current
// allowance or the caller's balance, and the write is an overwrite, not an
// addition. A second approval silently replaces the first; a grant racing a
// spend can therefore let the spender move more than the owner intended.
// That is the inherited shape of this token standard, kept as is.
func (e *Engine) Approve(caller string, spender string, value *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.allowances.SetAllowance(caller, spender, value); err != nil {
		return err
	}

	e.eventRouter.PublishTokenEvent(events.NewApproval(caller, spender, value))
	return nil
}

// TransferFrom moves value from the owner to the recipient against the grant
// the owner gave the caller. The allowance precheck fails without touching
// any state; the allowance is consumed strictly after the balance movement
// succeeds, so a failed movement leaves the grant intact.
func (e *Engine) TransferFrom(caller string, from string, to string, value *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.allowances.AllowanceOf(from, caller)
	if err != nil {
		return err
	}
	if current.Cmp(value) < 0 {
		return ledger.ErrInsufficientAllowance
	}

	if err := e.transferFromTo(from, to, value); err != nil {
		return err
	}

	if err := e.allowances.DecreaseAllowance(from, caller, value); err != nil {
		// balances already moved; surface the fault loudly, the caller's
		// grant was not consumed
		logx.Error("ENGINE", fmt.Sprintf("Failed to consume allowance %s -> %s after transfer: %v", from, caller, err))
		return err
	}

	return nil
}

// transferFromTo is the core movement routine shared by Transfer and
// TransferFrom: balance precheck, atomic two-sided commit, one Transfer
// event. Self-transfer is a net no-op on balances but still emits.
func (e *Engine) transferFromTo(from string, to string, value *uint256.Int) error {
	if err := e.ledger.Transfer(from, to, value); err != nil {
		logx.Warn("ENGINE", fmt.Sprintf("Transfer %s -> %s failed: %v", from, to, err))
		return err
	}

	e.eventRouter.PublishTokenEvent(events.NewTransfer(from, to, value))
	return nil
}
