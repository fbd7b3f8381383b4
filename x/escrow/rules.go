package escrow

import (
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// rule is a single precondition of an operation. Rules may load state
// into variables shared with later rules.
type rule func() error

// checkAll runs rules in order and returns the first failure. No rule
// writes to the store, so a failure leaves no trace.
func checkAll(rules ...rule) error {
	for _, r := range rules {
		if err := r(); err != nil {
			return err
		}
	}
	return nil
}

// associated loads the token account at addr and ensures it is the
// associated account of owner for mint.
func associated(db ledger.ReadOnlyKVStore, tokens token.Controller, name string, addr, owner, mint ledger.Address) (*token.Account, error) {
	want, err := tokens.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if !want.Equals(addr) {
		return nil, errors.Wrapf(errors.ErrInput, "%s is not the associated account of %s for mint %s", name, owner, mint)
	}
	acct, err := tokens.Account(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if !acct.Owner.Equals(owner) || !acct.Mint.Equals(mint) {
		return nil, errors.Wrapf(errors.ErrInput, "%s owner or mint mismatch", name)
	}
	return acct, nil
}

// canReceive fails if crediting amount to acct would overflow.
func canReceive(name string, acct *token.Account, amount uint64) error {
	if acct.Amount > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "%s balance", name)
	}
	return nil
}

// canPay fails if acct holds less than amount.
func canPay(name string, acct *token.Account, amount uint64) error {
	if acct.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, need %d", name, acct.Amount, amount)
	}
	return nil
}
