package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from the genesis file.
type GenesisAccount struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
}

// Initializer loads wallets from the genesis file.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis credits every listed account.
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	control := NewController()
	for i, acct := range accts {
		if err := control.Credit(kv, acct.Address, acct.Lamports); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
