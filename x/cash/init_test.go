package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestGenesis(t *testing.T) {
	alice := ledgertest.NewAddress()
	raw, err := json.Marshal([]GenesisAccount{{Address: alice, Lamports: 500}})
	assert.Nil(t, err)

	db := store.MemStore()
	opts := ledger.Options{"cash": raw}
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	got, err := NewController().Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), got)

	bad := ledger.Options{"cash": json.RawMessage(`[{"address": "hex:0102", "lamports": 1}]`)}
	if err := (Initializer{}).FromGenesis(bad, db); err == nil {
		t.Fatal("short address accepted")
	}
}
