/*
Package app links together all the various components
to construct the ledgerd application.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() ledger.Authenticator {
	return ledger.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics *utils.Metrics) app.Decorators {
	decorators := []ledger.Decorator{
		utils.NewLogging(),
		utils.NewRecovery(),
	}
	if metrics != nil {
		decorators = append(decorators, metrics)
	}
	return app.ChainDecorators(append(decorators,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, message effects are dropped on failure while the
		// sequence bump above is kept
		utils.NewSavepoint().OnDeliver(),
	)...)
}

// Router returns a default router, dispatching to the native balance,
// token and escrow handlers.
func Router(authFn ledger.Authenticator, conf escrow.Config) *app.Router {
	r := app.NewRouter()
	cashCtrl := cash.NewController()
	tokens := token.NewController(conf.Token, cashCtrl)
	cash.RegisterRoutes(r, authFn, cashCtrl)
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, conf, cashCtrl, tokens)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/mints", "/accounts", "/auth" and
// "/escrows"
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		token.RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializer loads native balances, mints and token accounts from
// genesis.
func Initializer(conf escrow.Config) ledger.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		token.Initializer{Config: conf.Token},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. It returns the router as well, it decodes transactions.
func Stack(conf escrow.Config, metrics *utils.Metrics) (ledger.Handler, *app.Router) {
	authFn := Authenticator()
	r := Router(authFn, conf)
	return Chain(metrics).WithHandler(r), r
}

// Application constructs an application over the store at dbPath with
// the given arguments. An empty dbPath keeps the state in memory.
func Application(name string, conf escrow.Config, dbPath string, metrics *utils.Metrics) (*app.Application, *iavl.CommitStore, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	h, r := Stack(conf, metrics)
	a, err := app.NewApplication(name, kv, app.TxDecoder(r), h, QueryRouter(), Initializer(conf))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return a, kv, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
