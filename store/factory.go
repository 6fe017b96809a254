package store

import (
	"fmt"
	"path/filepath"

	"ftl/db"
)

// StoreType represents the type of store implementation
type StoreType string

const (
	// LevelDBStoreType uses the LevelDB implementation
	LevelDBStoreType StoreType = "leveldb"

	// BoltDBStoreType uses the single-file bbolt implementation
	BoltDBStoreType StoreType = "boltdb"

	// MemoryStoreType keeps everything in memory; for tests and demos
	MemoryStoreType StoreType = "memory"
)

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (unused for memory stores)
	Directory string `json:"directory" yaml:"directory"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}

	switch sc.Type {
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltDBStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// StoreFactory take responsibility to create store instances
type StoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() *StoreFactory {
	return &StoreFactory{}
}

// CreateStoreWithProvider creates all token stores over a single shared provider
func (sf *StoreFactory) CreateStoreWithProvider(config *StoreConfig) (BalanceStore, AllowanceStore, SupplyStore, error) {
	if config == nil {
		return nil, nil, nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := sf.CreateProvider(config)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	iterable, ok := provider.(db.IterableProvider)
	if !ok {
		return nil, nil, nil, fmt.Errorf("provider %s does not support iteration", config.Type)
	}

	balanceStore, err := NewGenericBalanceStore(iterable)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create balance store: %w", err)
	}

	allowanceStore, err := NewGenericAllowanceStore(provider)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create allowance store: %w", err)
	}

	supplyStore, err := NewGenericSupplyStore(provider)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create supply store: %w", err)
	}

	return balanceStore, allowanceStore, supplyStore, nil
}

// CreateProvider creates a database provider based on the configuration
func (sf *StoreFactory) CreateProvider(config *StoreConfig) (db.DatabaseProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case LevelDBStoreType:
		return db.NewLevelDBProvider(config.Directory)

	case BoltDBStoreType:
		return db.NewBoltProvider(filepath.Join(config.Directory, "ftl.db"))

	case MemoryStoreType:
		return db.NewMemoryProvider()

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// Global factory instance
var globalFactory = NewStoreFactory()

// CreateStore creates new store instances using the global factory
func CreateStore(config *StoreConfig) (BalanceStore, AllowanceStore, SupplyStore, error) {
	return globalFactory.CreateStoreWithProvider(config)
}
