package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// ConfigFile is the name of the node configuration file inside the
	// home directory.
	ConfigFile = "config.toml"
	// GenesisFile is the default name of the genesis file inside the home
	// directory.
	GenesisFile = "genesis.json"

	flagChainID = "chain-id"
	flagForce   = "force"
)

// InitOptions are the command line settings of the init command.
type InitOptions struct {
	ChainID string
	Force   bool
	// Args are the remaining, application specific arguments.
	Args []string
}

// GenOptions produces the configuration and the genesis of a new node.
// The configuration is written as TOML, so it must be encodable by
// BurntSushi/toml.
// This is application-specific
type GenOptions func(home string, opts InitOptions) (conf interface{}, gen *app.Genesis, err error)

// InitCmd writes the configuration and the genesis file into home. Existing
// files are kept unless the -force flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var opts InitOptions
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&opts.ChainID, flagChainID, "local-ledger", "chain id written to the genesis file")
	initFlags.BoolVar(&opts.Force, flagForce, false, "overwrite existing files")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	opts.Args = initFlags.Args()

	if err := os.MkdirAll(home, 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	confPath := filepath.Join(home, ConfigFile)
	genPath := filepath.Join(home, GenesisFile)
	if !opts.Force {
		for _, p := range []string{confPath, genPath} {
			if fileExists(p) {
				return errors.Wrapf(errors.ErrDuplicate, "%s already exists, use -%s to overwrite", p, flagForce)
			}
		}
	}

	conf, genesis, err := gen(home, opts)
	if err != nil {
		return err
	}
	if err := SaveConfig(confPath, conf); err != nil {
		return err
	}
	logger.Info("Generated config file", "path", confPath)

	if err := SaveGenesis(genPath, genesis); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genPath, "chain_id", genesis.ChainID)
	return nil
}

// LoadConfig decodes the TOML file at path into conf.
func LoadConfig(path string, conf interface{}) error {
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	return nil
}

// SaveConfig writes conf into path as TOML.
func SaveConfig(path string, conf interface{}) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		f.Close()
		return errors.Wrapf(errors.ErrInput, "encode config: %s", err)
	}
	return f.Close()
}

// SaveGenesis writes gen into path as indented JSON.
func SaveGenesis(path string, gen *app.Genesis) error {
	out, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(path, out, 0600)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}
