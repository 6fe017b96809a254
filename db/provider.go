package db

// DatabaseProvider abstracts the low-level key-value operations the token
// stores are built on. The contract the stores rely on:
//   - Get returns (nil, nil) for an absent key; callers map that to a zero
//     value. Absence is never an error.
//   - Put overwrites unconditionally.
//   - Batch groups writes so multi-key mutations commit atomically.
type DatabaseProvider interface {
	// Get retrieves a value by key, nil if the key does not exist
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair, overwriting any previous value
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// Close closes the database connection
	Close() error

	// Batch returns a new batch for atomic multi-key writes
	Batch() DatabaseBatch
}

// IterableProvider extends DatabaseProvider with prefix iteration, used by
// the audit surface to walk every balance record.
type IterableProvider interface {
	DatabaseProvider

	// IteratePrefix iterates over all key-value pairs with the given prefix.
	// The callback should return false to stop iteration.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error
}

// DatabaseBatch provides atomic batch operations
type DatabaseBatch interface {
	// Put adds a key-value pair to the batch
	Put(key, value []byte)

	// Delete adds a deletion to the batch
	Delete(key []byte)

	// Write commits all operations in the batch
	Write() error

	// Reset clears the batch
	Reset()

	// Close releases batch resources
	Close()
}
