package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/api"
	ledgerd "github.com/iov-one/ledger/cmd/ledgerd/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "ledgercli-test"

// testNode is a running ledger where the maker holds 100 of mint A and the
// taker holds 50 of mint B. Keys of all actors are stored in files.
type testNode struct {
	url  string
	conf escrow.Config

	authority, maker, taker *crypto.PrivateKey
	mintA, mintB            ledger.Address
	keys                    map[string]string
}

func startNode(t *testing.T) *testNode {
	t.Helper()
	n := &testNode{
		conf:      escrow.DefaultConfig(),
		authority: ledgertest.SeededKey("authority"),
		maker:     ledgertest.SeededKey("maker"),
		taker:     ledgertest.SeededKey("taker"),
		mintA:     ledgertest.NewAddress(),
		mintB:     ledgertest.NewAddress(),
		keys:      make(map[string]string),
	}

	a, kv, err := ledgerd.Application("ledgercli-test", n.conf, "", nil)
	require.NoError(t, err)
	t.Cleanup(kv.Close)

	gen, err := ledgerd.NewGenesis(testChainID,
		[]cash.GenesisAccount{
			{Address: n.maker.Address(), Lamports: 1000000000},
			{Address: n.taker.Address(), Lamports: 1000000000},
		},
		token.Genesis{
			Mints: []token.GenesisMint{
				{Address: n.mintA, Authority: n.authority.Address()},
				{Address: n.mintB, Authority: n.authority.Address()},
			},
			Accounts: []token.GenesisAccount{
				{Owner: n.maker.Address(), Mint: n.mintA, Amount: 100},
				{Owner: n.maker.Address(), Mint: n.mintB},
				{Owner: n.taker.Address(), Mint: n.mintA},
				{Owner: n.taker.Address(), Mint: n.mintB, Amount: 50},
			},
		})
	require.NoError(t, err)
	require.NoError(t, a.InitChain(gen))

	srv := httptest.NewServer(api.NewRouter(a, n.conf, prometheus.NewRegistry(), log.NewNopLogger()))
	t.Cleanup(srv.Close)
	n.url = srv.URL

	dir := tempDir(t)
	for name, key := range map[string]*crypto.PrivateKey{
		"authority": n.authority,
		"maker":     n.maker,
		"taker":     n.taker,
	} {
		path := filepath.Join(dir, name+".key")
		require.NoError(t, crypto.SaveKeyFile(path, key))
		n.keys[name] = path
	}
	return n
}

// run executes a command against the node and returns its output.
func (n *testNode) run(t *testing.T, cmd func(input io.Reader, output io.Writer, args []string) error, input []byte, args ...string) []byte {
	t.Helper()
	var output bytes.Buffer
	args = append([]string{"-node", n.url}, args...)
	require.NoError(t, cmd(bytes.NewReader(input), &output, args))
	return output.Bytes()
}

// deliver signs the serialized transaction with the named keys and submits
// it.
func (n *testNode) deliver(t *testing.T, tx []byte, signers ...string) {
	t.Helper()
	for _, name := range signers {
		tx = n.run(t, cmdSignTransaction, tx, "-key", n.keys[name])
	}
	n.run(t, cmdSubmitTransaction, tx)
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "ledgercli")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}
