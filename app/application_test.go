package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = "test-chain"

func newTestApp(t *testing.T) *Application {
	t.Helper()
	r := NewRouter()
	auth := sigs.Authenticate{}
	cash.RegisterRoutes(r, auth, cash.NewController())

	qr := ledger.NewQueryRouter()
	qr.RegisterAll(cash.RegisterQuery, sigs.RegisterQuery)

	stack := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)

	a, err := NewApplication("ledger-test", iavl.MockCommitStore(), TxDecoder(r), stack, qr, cash.Initializer{})
	require.NoError(t, err)
	return a
}

func genesis(t *testing.T, accounts ...cash.GenesisAccount) *Genesis {
	t.Helper()
	raw, err := json.Marshal(accounts)
	require.NoError(t, err)
	return &Genesis{
		ChainID:  testChainID,
		AppState: ledger.Options{"cash": raw},
	}
}

func sendTx(t *testing.T, from *crypto.PrivateKey, to ledger.Address, amount uint64, seq int64) []byte {
	t.Helper()
	tx, err := NewTx(&cash.SendMsg{Source: from.Address(), Destination: to, Lamports: amount})
	require.NoError(t, err)
	require.NoError(t, tx.Sign(from, testChainID, seq))
	raw, err := tx.Marshal()
	require.NoError(t, err)
	return raw
}

func lamports(t *testing.T, a *Application, addr ledger.Address) uint64 {
	t.Helper()
	res, err := a.Query("/wallets", ledger.KeyQueryMod, addr)
	require.NoError(t, err)
	if len(res) == 0 {
		return 0
	}
	return res[0].Value.(*cash.Wallet).Lamports
}

func TestApplicationDeliver(t *testing.T) {
	a := newTestApp(t)
	alice := ledgertest.SeededKey("alice")
	bobKey := ledgertest.SeededKey("bob")
	bob := bobKey.Address()

	res := a.DeliverTx(sendTx(t, alice, bob, 1, 0))
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code)

	require.NoError(t, a.InitChain(genesis(t, cash.GenesisAccount{Address: alice.Address(), Lamports: 1000})))
	assert.Equal(t, testChainID, a.ChainID())
	err := a.InitChain(genesis(t))
	assert.True(t, errors.ErrState.Is(err))

	info, err := a.Info()
	require.NoError(t, err)
	genesisVersion := info.Version

	res = a.DeliverTx(sendTx(t, alice, bob, 300, 0))
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, genesisVersion+1, res.Version)
	assert.Equal(t, uint64(700), lamports(t, a, alice.Address()))
	assert.Equal(t, uint64(300), lamports(t, a, bob))

	// Replaying the same transaction is rejected.
	res = a.DeliverTx(sendTx(t, alice, bob, 300, 0))
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code)

	// A failing transaction keeps its funds untouched but spends the
	// sequence, so its bytes cannot be delivered once it would succeed.
	failed := sendTx(t, alice, bob, 1000, 1)
	res = a.DeliverTx(failed)
	assert.Equal(t, errors.ErrInsufficientAmount.ABCICode(), res.Code)
	assert.Equal(t, genesisVersion+2, res.Version)
	assert.Equal(t, uint64(700), lamports(t, a, alice.Address()))
	assert.Equal(t, uint64(300), lamports(t, a, bob))

	res = a.DeliverTx(sendTx(t, bobKey, alice.Address(), 300, 0))
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, uint64(1000), lamports(t, a, alice.Address()))

	res = a.DeliverTx(failed)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code)
	assert.Equal(t, uint64(1000), lamports(t, a, alice.Address()))

	res = a.DeliverTx(sendTx(t, alice, bob, 100, 2))
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, uint64(900), lamports(t, a, alice.Address()))
}

func TestApplicationCheck(t *testing.T) {
	a := newTestApp(t)
	alice := ledgertest.SeededKey("alice")
	bob := ledgertest.NewAddress()
	require.NoError(t, a.InitChain(genesis(t, cash.GenesisAccount{Address: alice.Address(), Lamports: 1000})))

	res := a.CheckTx(sendTx(t, alice, bob, 300, 0))
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, uint64(1000), lamports(t, a, alice.Address()))

	// Check did not consume the sequence.
	res = a.DeliverTx(sendTx(t, alice, bob, 300, 0))
	require.True(t, res.IsOK(), res.Log)

	res = a.CheckTx([]byte("not a transaction"))
	assert.False(t, res.IsOK())
}

func TestApplicationUnsignedTx(t *testing.T) {
	a := newTestApp(t)
	alice := ledgertest.SeededKey("alice")
	require.NoError(t, a.InitChain(genesis(t, cash.GenesisAccount{Address: alice.Address(), Lamports: 1000})))

	tx, err := NewTx(&cash.SendMsg{Source: alice.Address(), Destination: ledgertest.NewAddress(), Lamports: 1})
	require.NoError(t, err)
	raw, err := tx.Marshal()
	require.NoError(t, err)

	info, err := a.Info()
	require.NoError(t, err)
	res := a.DeliverTx(raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
	assert.Equal(t, int64(0), res.Version)
	after, err := a.Info()
	require.NoError(t, err)
	assert.Equal(t, info.Version, after.Version)
}

func TestApplicationQueryUnknownPath(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Query("/nothing", ledger.KeyQueryMod, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}
