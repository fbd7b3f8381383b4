package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/api"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FaucetKeyFile is the key generated by init when no address to fund
	// was given.
	FaucetKeyFile = "faucet.key"

	// FaucetLamports is the native balance of the faucet at genesis.
	FaucetLamports uint64 = 1000000000000000

	appName = "ledgerd"
)

var _ server.GenOptions = GenInitOptions
var _ server.AppGenerator = GenerateApp

// GenInitOptions will produce the default configuration and a genesis
// with one rich account, to use for dev mode.
//
// The first argument, if present, is the address of the rich account.
// Otherwise a new key is generated and stored in the home directory.
func GenInitOptions(home string, opts server.InitOptions) (interface{}, *app.Genesis, error) {
	var faucet ledger.Address
	if len(opts.Args) > 0 {
		addr, err := ledger.ParseAddress(opts.Args[0])
		if err != nil {
			return nil, nil, errors.Wrap(err, "faucet address")
		}
		faucet = addr
	} else {
		key := crypto.GenPrivKeyEd25519()
		if err := crypto.SaveKeyFile(filepath.Join(home, FaucetKeyFile), key); err != nil {
			return nil, nil, err
		}
		faucet = key.Address()
	}

	conf := DefaultConfig(opts.ChainID)
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}
	gen, err := NewGenesis(opts.ChainID, []cash.GenesisAccount{{Address: faucet, Lamports: FaucetLamports}}, token.Genesis{})
	if err != nil {
		return nil, nil, err
	}
	return conf, gen, nil
}

// NewGenesis builds a genesis from the state of each module.
func NewGenesis(chainID string, wallets []cash.GenesisAccount, tokens token.Genesis) (*app.Genesis, error) {
	cashState, err := json.Marshal(wallets)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	tokenState, err := json.Marshal(tokens)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &app.Genesis{
		ChainID: chainID,
		AppState: ledger.Options{
			"cash":  cashState,
			"token": tokenState,
		},
	}, nil
}

// GenerateApp is used to create a stub for server/start.go command.
// It loads the configuration from home, opens the database and loads
// the genesis file if the state is empty.
func GenerateApp(home string, logger log.Logger, opts server.StartOptions) (*server.Node, error) {
	var conf Config
	if err := server.LoadConfig(filepath.Join(home, server.ConfigFile), &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	logger, err := conf.Logger(logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	application, kv, err := Application(appName, conf.Escrow, resolve(home, conf.DBPath), metrics)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger.With("module", "app")).WithDebug(conf.Debug || opts.Debug)

	if err := ensureChain(application, conf, home); err != nil {
		kv.Close()
		return nil, err
	}

	return &server.Node{
		Listen:  conf.Listen,
		Handler: api.NewRouter(application, conf.Escrow, reg, logger.With("module", "api")),
		Close: func() error {
			kv.Close()
			return nil
		},
	}, nil
}

// ensureChain loads the genesis file into an empty state and makes sure an
// existing state belongs to the configured chain.
func ensureChain(a *app.Application, conf Config, home string) error {
	switch stored := a.ChainID(); {
	case stored == conf.ChainID:
		return nil
	case stored != "":
		return errors.Wrapf(errors.ErrState, "database belongs to chain %q, not %q", stored, conf.ChainID)
	}

	gen, err := app.LoadGenesis(resolve(home, conf.GenesisFile))
	if err != nil {
		return err
	}
	if gen.ChainID != conf.ChainID {
		return errors.Wrapf(errors.ErrInput, "genesis chain %q, configured %q", gen.ChainID, conf.ChainID)
	}
	return a.InitChain(gen)
}
