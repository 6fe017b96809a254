package store

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"ftl/db"
	"ftl/logx"
	"ftl/types"
	"ftl/utils"
)

// BalanceStore owns the address -> balance mapping. Absent addresses read as
// zero; that is part of the contract, not an error.
type BalanceStore interface {
	GetBalance(addr string) (*uint256.Int, error)
	SetBalance(addr string, balance *uint256.Int) error
	SetBalanceBatch(balances map[string]*uint256.Int) error
	ListBalances() ([]*types.Account, error)
	MustClose()
}

type GenericBalanceStore struct {
	mu         sync.RWMutex
	dbProvider db.IterableProvider
}

func NewGenericBalanceStore(dbProvider db.IterableProvider) (*GenericBalanceStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericBalanceStore{
		dbProvider: dbProvider,
	}, nil
}

// GetBalance returns the stored balance for addr, zero if no record exists
func (bs *GenericBalanceStore) GetBalance(addr string) (*uint256.Int, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	data, err := bs.dbProvider.Get(bs.getDbKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get balance of %s from db: %w", addr, err)
	}

	// absent key reads as zero
	if data == nil {
		return uint256.NewInt(0), nil
	}

	return utils.Uint256FromString(string(data)), nil
}

// SetBalance overwrites the stored balance for addr
func (bs *GenericBalanceStore) SetBalance(addr string, balance *uint256.Int) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	err := bs.dbProvider.Put(bs.getDbKey(addr), []byte(utils.Uint256ToString(balance)))
	if err != nil {
		return fmt.Errorf("failed to write balance of %s to db: %w", addr, err)
	}

	return nil
}

// SetBalanceBatch overwrites several balances in one atomic write. Used by
// the transfer path so both sides of a movement commit together.
func (bs *GenericBalanceStore) SetBalanceBatch(balances map[string]*uint256.Int) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	batch := bs.dbProvider.Batch()
	defer batch.Close()
	for addr, balance := range balances {
		batch.Put(bs.getDbKey(addr), []byte(utils.Uint256ToString(balance)))
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write balance batch to db: %w", err)
	}

	return nil
}

// ListBalances returns every stored balance record
func (bs *GenericBalanceStore) ListBalances() ([]*types.Account, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	accounts := make([]*types.Account, 0)
	err := bs.dbProvider.IteratePrefix([]byte(PrefixBalance), func(key, value []byte) bool {
		accounts = append(accounts, &types.Account{
			Address: string(key[len(PrefixBalance):]),
			Balance: utils.Uint256FromString(string(value)),
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return accounts, nil
}

func (bs *GenericBalanceStore) MustClose() {
	err := bs.dbProvider.Close()
	if err != nil {
		logx.Error("BALANCE_STORE", "Failed to close db provider:", err.Error())
	}
}

func (bs *GenericBalanceStore) getDbKey(addr string) []byte {
	return []byte(PrefixBalance + addr)
}
