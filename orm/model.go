package orm

import "github.com/iov-one/ledger"

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	ledger.Persistent
	Validate() error
}

// ModelIterator walks over models stored in a bucket.
type ModelIterator interface {
	// Load reads the next model into dest and returns its primary key.
	// ErrIteratorDone is returned when there is nothing more to read.
	Load(dest Model) (key []byte, err error)
	// Release frees the underlying iterator.
	Release()
}
