package store

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"ftl/db"
	"ftl/logx"
	"ftl/utils"
)

// AllowanceStore owns the (owner, spender) -> allowance mapping. Absent pairs
// read as zero and SetAllowance overwrites, so a repeated grant replaces the
// prior one rather than adding to it.
type AllowanceStore interface {
	GetAllowance(owner, spender string) (*uint256.Int, error)
	SetAllowance(owner, spender string, value *uint256.Int) error
	MustClose()
}

type GenericAllowanceStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAllowanceStore(dbProvider db.DatabaseProvider) (*GenericAllowanceStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAllowanceStore{
		dbProvider: dbProvider,
	}, nil
}

// GetAllowance returns the stored allowance for the pair, zero if no record exists
func (as *GenericAllowanceStore) GetAllowance(owner, spender string) (*uint256.Int, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	data, err := as.dbProvider.Get(as.getDbKey(owner, spender))
	if err != nil {
		return nil, fmt.Errorf("could not get allowance %s -> %s from db: %w", owner, spender, err)
	}

	// absent pair reads as zero
	if data == nil {
		return uint256.NewInt(0), nil
	}

	return utils.Uint256FromString(string(data)), nil
}

// SetAllowance overwrites the stored allowance for the pair
func (as *GenericAllowanceStore) SetAllowance(owner, spender string, value *uint256.Int) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	err := as.dbProvider.Put(as.getDbKey(owner, spender), []byte(utils.Uint256ToString(value)))
	if err != nil {
		return fmt.Errorf("failed to write allowance %s -> %s to db: %w", owner, spender, err)
	}

	return nil
}

func (as *GenericAllowanceStore) MustClose() {
	err := as.dbProvider.Close()
	if err != nil {
		logx.Error("ALLOWANCE_STORE", "Failed to close db provider:", err.Error())
	}
}

func (as *GenericAllowanceStore) getDbKey(owner, spender string) []byte {
	return []byte(PrefixAllowance + owner + AllowanceKeySep + spender)
}
