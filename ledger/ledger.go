package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"ftl/logx"
	"ftl/store"
	"ftl/types"
)

var (
	// ErrInsufficientBalance is returned when a debit would drive a balance
	// below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the remaining authorized amount.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrBalanceOverflow is the defensive guard on credit. Unreachable while
	// the conservation invariant holds, but credit fails closed rather than
	// wrapping.
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrSupplyAlreadySet is returned on a second genesis attempt.
	ErrSupplyAlreadySet = errors.New("total supply already set")
)

// Ledger owns the address -> balance mapping and the immutable total supply.
// Total supply is pinned exactly once by InitSupply and reloaded from the
// supply store on every later construction.
type Ledger struct {
	mu          sync.RWMutex
	balances    store.BalanceStore
	supply      store.SupplyStore
	totalSupply *uint256.Int // nil until genesis
}

func NewLedger(balances store.BalanceStore, supply store.SupplyStore) (*Ledger, error) {
	l := &Ledger{
		balances: balances,
		supply:   supply,
	}

	persisted, ok, err := supply.GetTotalSupply()
	if err != nil {
		return nil, fmt.Errorf("could not load total supply: %w", err)
	}
	if ok {
		l.totalSupply = persisted
		logx.Info("LEDGER", fmt.Sprintf("Loaded total supply %s", persisted.Dec()))
	}

	return l, nil
}

// InitSupply runs genesis: credits the full initial supply to the deployer
// and pins total supply. Returns ErrSupplyAlreadySet if genesis already ran,
// on this ledger or a previous incarnation over the same store.
func (l *Ledger) InitSupply(deployer string, initialSupply *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.totalSupply != nil {
		return ErrSupplyAlreadySet
	}
	if _, ok, err := l.supply.GetTotalSupply(); err != nil {
		return fmt.Errorf("could not check persisted supply: %w", err)
	} else if ok {
		return ErrSupplyAlreadySet
	}

	// balance first, supply marker last: if we crash in between, the next
	// start re-runs genesis and the overwrite converges to the same state
	if err := l.balances.SetBalance(deployer, initialSupply); err != nil {
		return fmt.Errorf("could not credit deployer: %w", err)
	}
	if err := l.supply.SetGenesis(deployer, initialSupply); err != nil {
		return fmt.Errorf("could not persist genesis: %w", err)
	}

	l.totalSupply = initialSupply.Clone()
	logx.Info("LEDGER", fmt.Sprintf("Genesis: credited %s to %s", initialSupply.Dec(), deployer))
	return nil
}

// Initialized reports whether genesis has run
func (l *Ledger) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply != nil
}

// TotalSupply returns the fixed total supply, zero before genesis
func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.totalSupply == nil {
		return uint256.NewInt(0)
	}
	return l.totalSupply.Clone()
}

// BalanceOf returns the current balance for addr, zero for unknown addresses
func (l *Ledger) BalanceOf(addr string) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances.GetBalance(addr)
}

// Credit increases the balance of addr by amount. The overflow guard fails
// closed; it cannot trip while conservation holds.
func (l *Ledger) Credit(addr string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.balances.GetBalance(addr)
	if err != nil {
		return err
	}

	next, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return ErrBalanceOverflow
	}

	return l.balances.SetBalance(addr, next)
}

// Debit decreases the balance of addr by amount. The check precedes any
// mutation, so a failed debit leaves the stored balance untouched.
func (l *Ledger) Debit(addr string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.balances.GetBalance(addr)
	if err != nil {
		return err
	}

	if current.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	return l.balances.SetBalance(addr, new(uint256.Int).Sub(current, amount))
}

// Transfer moves value from one address to another, committing both sides in
// a single batch so a storage fault cannot strand half the movement. All
// checks run before any write. Self-transfer is permitted and is a net no-op.
func (l *Ledger) Transfer(from string, to string, value *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBalance, err := l.balances.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}

	if from == to {
		// sub then add cancels out; nothing to write
		return nil
	}

	toBalance, err := l.balances.GetBalance(to)
	if err != nil {
		return err
	}
	newTo, overflow := new(uint256.Int).AddOverflow(toBalance, value)
	if overflow {
		return ErrBalanceOverflow
	}

	state := map[string]*uint256.Int{
		from: new(uint256.Int).Sub(fromBalance, value),
		to:   newTo,
	}
	return l.balances.SetBalanceBatch(state)
}

// ListBalances returns every account with a stored balance record
func (l *Ledger) ListBalances() ([]*types.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances.ListBalances()
}

// SumBalances adds up every stored balance. Used by the audit surface to
// check conservation: the sum equals total supply at every point after
// genesis.
func (l *Ledger) SumBalances() (*uint256.Int, error) {
	accounts, err := l.ListBalances()
	if err != nil {
		return nil, err
	}

	sum := uint256.NewInt(0)
	for _, acc := range accounts {
		next, overflow := new(uint256.Int).AddOverflow(sum, acc.Balance)
		if overflow {
			return nil, ErrBalanceOverflow
		}
		sum = next
	}
	return sum, nil
}

// StateDigest computes the deterministic digest of all current balances
func (l *Ledger) StateDigest() ([32]byte, error) {
	accounts, err := l.ListBalances()
	if err != nil {
		return [32]byte{}, err
	}
	return ComputeStateDigest(accounts), nil
}
