package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
)

const optKey = "token"

// GenesisMint is a mint created at genesis.
type GenesisMint struct {
	Address   ledger.Address `json:"address"`
	Authority ledger.Address `json:"authority"`
	Decimals  uint32         `json:"decimals"`
}

// GenesisAccount is an associated account created at genesis.
type GenesisAccount struct {
	Owner  ledger.Address `json:"owner"`
	Mint   ledger.Address `json:"mint"`
	Amount uint64         `json:"amount"`
}

// Genesis is the token section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer loads mints and associated accounts from genesis. Rent of
// genesis accounts is credited out of thin air.
type Initializer struct {
	Config Config
}

var _ ledger.Initializer = Initializer{}

func (i Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	mints := NewMintBucket()
	accounts := NewAccountBucket()
	cashCtrl := cash.NewController()
	supply := make(map[string]uint64)

	for n, gm := range gen.Mints {
		if err := gm.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", n)
		}
		m := &Mint{Authority: gm.Authority, Decimals: gm.Decimals}
		if err := mints.Put(db, gm.Address, m); err != nil {
			return errors.Wrapf(err, "mint %d", n)
		}
		if err := cashCtrl.Credit(db, gm.Address, cash.RentExemptMinimum(MintSize)); err != nil {
			return err
		}
	}

	for n, ga := range gen.Accounts {
		if err := mints.Has(db, ga.Mint); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		addr, err := i.Config.AssociatedAddress(ga.Owner, ga.Mint)
		if err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if err := accounts.Has(db, addr); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "account %d", n)
		}
		acct := &Account{Mint: ga.Mint, Owner: ga.Owner, Amount: ga.Amount}
		if err := accounts.Put(db, addr, acct); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if err := cashCtrl.Credit(db, addr, cash.RentExemptMinimum(AccountSize)); err != nil {
			return err
		}
		supply[string(ga.Mint)] += ga.Amount
	}

	for mintAddr, total := range supply {
		var m Mint
		if err := mints.One(db, []byte(mintAddr), &m); err != nil {
			return err
		}
		m.Supply = total
		if err := mints.Put(db, []byte(mintAddr), &m); err != nil {
			return err
		}
	}
	return nil
}
