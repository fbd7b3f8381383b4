package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Result is the outcome of a transaction.
type Result struct {
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
	Data []byte `json:"data,omitempty"`
	// Version is the state version after the transaction. Only delivered
	// transactions create versions, failed ones only when they consumed a
	// signer sequence.
	Version int64 `json:"version"`
}

// IsOK returns true when the transaction succeeded.
func (r *Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// Info describes the current state.
type Info struct {
	Name    string `json:"name"`
	ChainID string `json:"chain_id"`
	Version int64  `json:"version"`
	Hash    []byte `json:"hash"`
}

// Application executes transactions one at a time over a committing store.
type Application struct {
	mu sync.Mutex

	name        string
	store       ledger.CommitKVStore
	decoder     ledger.TxDecoder
	handler     ledger.Handler
	queryRouter ledger.QueryRouter
	initializer ledger.Initializer
	logger      log.Logger
	debug       bool

	chainID string
}

// NewApplication loads the latest version of store.
func NewApplication(
	name string,
	store ledger.CommitKVStore,
	decoder ledger.TxDecoder,
	handler ledger.Handler,
	queryRouter ledger.QueryRouter,
	initializer ledger.Initializer,
) (*Application, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load store")
	}
	view := store.CacheWrap()
	chainID, err := loadChainID(view)
	view.Discard()
	if err != nil {
		return nil, err
	}
	return &Application{
		name:        name,
		store:       store,
		decoder:     decoder,
		handler:     handler,
		queryRouter: queryRouter,
		initializer: initializer,
		logger:      log.NewNopLogger(),
		chainID:     chainID,
	}, nil
}

// WithLogger sets the logger passed to handlers in the context.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// WithDebug makes results carry full error messages and stack traces of
// internal errors.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// ChainID returns the chain id set at genesis, empty before InitChain.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// InitChain loads the genesis state and commits it as the first version.
// It fails if the chain was already initialized.
func (a *Application) InitChain(gen *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %s already initialized", a.chainID)
	}
	cache := a.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	id, err := a.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	a.chainID = gen.ChainID
	a.logger.Info("Chain initialized", "chain_id", a.chainID, "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return nil
}

// DeliverTx executes a transaction and commits its effects. A failed
// transaction that got past authentication still commits the bumped signer
// sequences, so its bytes cannot be replayed later. Message effects of a
// failed transaction are never committed.
func (a *Application) DeliverTx(raw []byte) *Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(raw)
	if err != nil {
		return a.errResult(err)
	}
	ctx := a.context("deliver_tx", tx)
	cache := a.store.CacheWrap()
	res, err := a.handler.Deliver(ctx, cache, tx)
	if err != nil {
		if d, ok := cache.(dirtyStore); !ok || !d.Dirty() {
			cache.Discard()
			return a.errResult(err)
		}
		// Only writes that survived the failure remain in the cache. The
		// message savepoint below authentication already dropped the rest.
		failed := a.errResult(err)
		if err := cache.Write(); err != nil {
			return a.errResult(errors.Wrap(err, "write"))
		}
		failed.Version = a.commit()
		return failed
	}
	if err := cache.Write(); err != nil {
		return a.errResult(errors.Wrap(err, "write"))
	}
	return &Result{Data: res.Data, Log: res.Log, Version: a.commit()}
}

// dirtyStore is implemented by caches that can tell whether they hold
// pending writes.
type dirtyStore interface {
	Dirty() bool
}

func (a *Application) commit() int64 {
	id, err := a.store.Commit()
	if err != nil {
		// The working state already holds the changes, there is no way
		// to continue safely.
		panic(fmt.Sprintf("commit failed: %+v", err))
	}
	a.logger.Debug("Commit synced", "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id.Version
}

// CheckTx runs a transaction against the current state and discards its
// effects.
func (a *Application) CheckTx(raw []byte) *Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(raw)
	if err != nil {
		return a.errResult(err)
	}
	ctx := a.context("check_tx", tx)
	cache := a.store.CacheWrap()
	defer cache.Discard()
	res, err := a.handler.Check(ctx, cache, tx)
	if err != nil {
		return a.errResult(err)
	}
	id, err := a.store.LatestVersion()
	if err != nil {
		return a.errResult(err)
	}
	return &Result{Data: res.Data, Log: res.Log, Version: id.Version}
}

// Query runs a query against the latest state. The path selects the
// handler, mod and data are passed to it.
func (a *Application) Query(path, mod string, data []byte) ([]ledger.QueryResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	qh := a.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	db := a.store.CacheWrap()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// Info returns the current chain state.
func (a *Application) Info() (*Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.store.LatestVersion()
	if err != nil {
		return nil, err
	}
	return &Info{
		Name:    a.name,
		ChainID: a.chainID,
		Version: id.Version,
		Hash:    id.Hash,
	}, nil
}

func (a *Application) context(call string, tx ledger.Tx) context.Context {
	ctx := ledger.WithChainID(context.Background(), a.chainID)
	ctx = ledger.WithLogger(ctx, a.logger)
	if id, err := a.store.LatestVersion(); err == nil {
		ctx = ledger.WithVersion(ctx, id.Version)
	}
	return ledger.WithLogInfo(ctx, "call", call, "path", ledger.GetPath(tx))
}

// loadTx calls the decoder and captures any panics.
func (a *Application) loadTx(raw []byte) (tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	if a.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	return a.decoder(raw)
}

func (a *Application) errResult(err error) *Result {
	code, msg := errors.ABCIInfo(err, a.debug)
	return &Result{Code: code, Log: msg}
}
