package store

import (
	"fmt"

	"github.com/holiman/uint256"

	"ftl/db"
	"ftl/utils"
)

// SupplyStore persists the genesis facts: the fixed total supply and the
// deployer it was credited to. Presence of the supply record is what makes
// genesis one-shot across restarts.

type SupplyStore interface {
	GetTotalSupply() (*uint256.Int, bool, error)
	SetGenesis(deployer string, totalSupply *uint256.Int) error
	GetDeployer() (string, error)
}

type GenericSupplyStore struct {
	dbProvider db.DatabaseProvider
}

func NewGenericSupplyStore(dbProvider db.DatabaseProvider) (*GenericSupplyStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericSupplyStore{dbProvider: dbProvider}, nil
}

// GetTotalSupply returns the persisted supply and whether genesis has run
func (ss *GenericSupplyStore) GetTotalSupply() (*uint256.Int, bool, error) {
	data, err := ss.dbProvider.Get([]byte(KeyTotalSupply))
	if err != nil {
		return nil, false, fmt.Errorf("could not get total supply from db: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	return utils.Uint256FromString(string(data)), true, nil
}

// SetGenesis records supply and deployer in one atomic write
func (ss *GenericSupplyStore) SetGenesis(deployer string, totalSupply *uint256.Int) error {
	batch := ss.dbProvider.Batch()
	defer batch.Close()
	batch.Put([]byte(KeyTotalSupply), []byte(utils.Uint256ToString(totalSupply)))
	batch.Put([]byte(KeyDeployer), []byte(deployer))

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write genesis records to db: %w", err)
	}
	return nil
}

// GetDeployer returns the recorded deployer address, empty before genesis
func (ss *GenericSupplyStore) GetDeployer() (string, error) {
	data, err := ss.dbProvider.Get([]byte(KeyDeployer))
	if err != nil {
		return "", fmt.Errorf("could not get deployer from db: %w", err)
	}
	return string(data), nil
}
