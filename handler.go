package ledger

import (
	"context"
	"encoding/json"
)

// Handler processes one kind of message.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction without applying its effects.
type Checker interface {
	Check(ctx context.Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx context.Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication or atomicity to many Handlers.
type Decorator interface {
	Check(ctx context.Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds messages to their handlers.
type Registry interface {
	Handle(m Msg, h Handler)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	Data []byte
	Log  string
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
}

// Options are the genesis options. Each extension looks up its key and
// parses the json as desired.
type Options map[string]json.RawMessage

// ReadOptions parses the value stored under key into obj. A missing key is
// not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer loads extension state from genesis.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
