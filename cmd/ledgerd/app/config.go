package app

import (
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the content of the node configuration file.
type Config struct {
	// ChainID must match the genesis file and the stored state.
	ChainID string `toml:"chain_id"`
	// DBPath is the database location. Relative paths are resolved
	// against the home directory. An empty path keeps the state in
	// memory.
	DBPath string `toml:"db_path"`
	// GenesisFile is read on the first start only.
	GenesisFile string `toml:"genesis_file"`
	Listen      string `toml:"listen"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string        `toml:"log_level"`
	Debug    bool          `toml:"debug"`
	Escrow   escrow.Config `toml:"escrow"`
}

// DefaultConfig returns the configuration written by the init command.
func DefaultConfig(chainID string) Config {
	return Config{
		ChainID:     chainID,
		DBPath:      "ledger.db",
		GenesisFile: "genesis.json",
		Listen:      "localhost:8080",
		LogLevel:    "info",
		Escrow:      escrow.DefaultConfig(),
	}
}

// Validate returns an error describing the first invalid setting.
func (c Config) Validate() error {
	if !ledger.IsValidChainID(c.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", c.ChainID)
	}
	if c.GenesisFile == "" {
		return errors.Wrap(errors.ErrEmpty, "genesis file")
	}
	if c.Listen == "" {
		return errors.Wrap(errors.ErrEmpty, "listen")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return c.Escrow.Validate()
}

// Logger limits logger to the configured level.
func (c Config) Logger(logger log.Logger) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// resolve returns path relative to home unless it is absolute. An empty
// path stays empty.
func resolve(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
