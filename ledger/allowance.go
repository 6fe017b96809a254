package ledger

import (
	"sync"

	"github.com/holiman/uint256"

	"ftl/store"
)

// AllowanceRegistry owns the (owner, spender) -> allowance mapping. It is
// independent of the Ledger: nothing here reads or writes balances.
type AllowanceRegistry struct {
	mu         sync.RWMutex
	allowances store.AllowanceStore
}

func NewAllowanceRegistry(allowances store.AllowanceStore) *AllowanceRegistry {
	return &AllowanceRegistry{
		allowances: allowances,
	}
}

// AllowanceOf returns the remaining grant, zero for pairs never approved
func (r *AllowanceRegistry) AllowanceOf(owner string, spender string) (*uint256.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.allowances.GetAllowance(owner, spender)
}

// SetAllowance replaces the stored grant unconditionally. It does not add to
// a prior grant; a second approval overwrites the first.
func (r *AllowanceRegistry) SetAllowance(owner string, spender string, value *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.allowances.SetAllowance(owner, spender, value)
}

// DecreaseAllowance consumes amount from the remaining grant. The check
// precedes the write, so a failed decrease leaves the grant untouched.
func (r *AllowanceRegistry) DecreaseAllowance(owner string, spender string, amount *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.allowances.GetAllowance(owner, spender)
	if err != nil {
		return err
	}

	if current.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	return r.allowances.SetAllowance(owner, spender, new(uint256.Int).Sub(current, amount))
}
