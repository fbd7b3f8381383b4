package app

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home, err := ioutil.TempDir("", "ledgerd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(home) })
	return home
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Config)
		wantErr *errors.Error
	}{
		"default": {
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		"in memory database": {
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: nil,
		},
		"invalid chain id": {
			mutate:  func(c *Config) { c.ChainID = "x" },
			wantErr: errors.ErrInput,
		},
		"missing listen": {
			mutate:  func(c *Config) { c.Listen = "" },
			wantErr: errors.ErrEmpty,
		},
		"missing genesis": {
			mutate:  func(c *Config) { c.GenesisFile = "" },
			wantErr: errors.ErrEmpty,
		},
		"unknown log level": {
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: errors.ErrInput,
		},
		"missing escrow program": {
			mutate:  func(c *Config) { c.Escrow.Program = nil },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			conf := DefaultConfig("test-ledger")
			tc.mutate(&conf)
			err := conf.Validate()
			require.True(t, tc.wantErr.Is(err), "%+v", err)
		})
	}
}

func TestConfigFile(t *testing.T) {
	home := tempHome(t)
	path := filepath.Join(home, server.ConfigFile)

	conf := DefaultConfig("test-ledger")
	conf.Escrow.Program = ledgertest.NewAddress()
	require.NoError(t, server.SaveConfig(path, conf))

	var loaded Config
	require.NoError(t, server.LoadConfig(path, &loaded))
	assert.Equal(t, conf, loaded)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "", resolve("/home", ""))
	assert.Equal(t, "/data/ledger.db", resolve("/home", "/data/ledger.db"))
	assert.Equal(t, filepath.Join("/home", "ledger.db"), resolve("/home", "ledger.db"))
}

func TestGenInitOptions(t *testing.T) {
	home := tempHome(t)

	conf, gen, err := GenInitOptions(home, server.InitOptions{ChainID: "test-ledger"})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig("test-ledger"), conf)
	assert.Equal(t, "test-ledger", gen.ChainID)

	key, err := crypto.LoadKeyFile(filepath.Join(home, FaucetKeyFile))
	require.NoError(t, err)
	var wallets []struct {
		Address  ledger.Address `json:"address"`
		Lamports uint64         `json:"lamports"`
	}
	require.NoError(t, gen.AppState.ReadOptions("cash", &wallets))
	require.Len(t, wallets, 1)
	assert.Equal(t, key.Address(), wallets[0].Address)
	assert.Equal(t, FaucetLamports, wallets[0].Lamports)

	faucet := ledgertest.NewAddress()
	_, gen, err = GenInitOptions(tempHome(t), server.InitOptions{ChainID: "test-ledger", Args: []string{faucet.String()}})
	require.NoError(t, err)
	require.NoError(t, gen.AppState.ReadOptions("cash", &wallets))
	assert.Equal(t, faucet, wallets[0].Address)

	_, _, err = GenInitOptions(tempHome(t), server.InitOptions{ChainID: "test-ledger", Args: []string{"nope"}})
	require.Error(t, err)
}

func TestGenerateApp(t *testing.T) {
	home := tempHome(t)
	logger := log.NewNopLogger()
	require.NoError(t, server.InitCmd(GenInitOptions, logger, home, []string{"-chain-id", "test-ledger"}))

	node, err := GenerateApp(home, logger, server.StartOptions{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", node.Listen)

	w := httptest.NewRecorder()
	node.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info app.Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "test-ledger", info.ChainID)
	assert.Equal(t, int64(1), info.Version)
	require.NoError(t, node.Close())

	// The second start reuses the stored state.
	node, err = GenerateApp(home, logger, server.StartOptions{})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	node.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, int64(1), info.Version)
	require.NoError(t, node.Close())
}

func TestGenerateAppChainMismatch(t *testing.T) {
	home := tempHome(t)
	logger := log.NewNopLogger()
	require.NoError(t, server.InitCmd(GenInitOptions, logger, home, []string{"-chain-id", "test-ledger"}))

	node, err := GenerateApp(home, logger, server.StartOptions{})
	require.NoError(t, err)
	require.NoError(t, node.Close())

	var conf Config
	path := filepath.Join(home, server.ConfigFile)
	require.NoError(t, server.LoadConfig(path, &conf))
	conf.ChainID = "other-ledger"
	require.NoError(t, server.SaveConfig(path, conf))

	_, err = GenerateApp(home, logger, server.StartOptions{})
	require.True(t, errors.ErrState.Is(err), "%+v", err)
}
