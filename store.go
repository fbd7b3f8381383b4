package ledger

// ReadOnlyKVStore is the read half of a KVStore.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// A nil start or end is unbounded.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half of a KVStore.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the storage interface every handler works against.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch that can write multiple ops at once.
	NewBatch() Batch
}

// Batch collects writes to apply them later.
type Batch interface {
	SetDeleter
	Write() error
}

/*
Iterator allows access to a range of keys.

	itr, err := db.Iterator(start, end)
	...
	defer itr.Close()
	for ; itr.Valid(); {
		k, v := itr.Key(), itr.Value()
		// ...
		if err := itr.Next(); err != nil { ... }
	}
*/
type Iterator interface {
	// Valid returns whether the current position is valid. Once invalid,
	// an Iterator is forever invalid.
	Valid() bool

	// Next moves the iterator to the next key. Panics if not valid.
	Next() error

	// Key returns the key of the cursor. Panics if not valid.
	Key() []byte

	// Value returns the value of the cursor. Panics if not valid.
	Value() []byte

	// Close releases the Iterator.
	Close()
}

// CacheableKVStore is a KVStore that can be cache wrapped.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes layered over a store.
// Reads see the scratch pad first. Write applies every change to the parent
// at once, Discard drops them all. This is the unit of atomicity of an
// operation.
type KVCacheWrap interface {
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this cache wrap and releases all data.
	Discard()
}

// CommitKVStore is persistent, versioned state.
type CommitKVStore interface {
	// Get returns the value at the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a scratch pad over the working state.
	CacheWrap() KVCacheWrap

	// Commit persists the working state as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
