package orm

import "github.com/iov-one/ledger/errors"

// ErrIteratorDone is returned by a ModelIterator that has no more entries.
var ErrIteratorDone = errors.Register(200, "iterator done")
