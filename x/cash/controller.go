package cash

import (
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Controller is the functionality needed by other modules to move native
// balance.
type Controller interface {
	// Balance returns the lamports held by addr. Unknown addresses hold
	// nothing.
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error)

	// Credit adds lamports to addr out of thin air. Only genesis and
	// tests should call it.
	Credit(db ledger.KVStore, addr ledger.Address, amount uint64) error

	// MoveLamports moves amount from src to dest.
	MoveLamports(db ledger.KVStore, src, dest ledger.Address, amount uint64) error

	// Drain moves the whole balance of src to dest and removes the src
	// wallet. It returns the amount moved.
	Drain(db ledger.KVStore, src, dest ledger.Address) (uint64, error)

	// Allocate funds a new account holding dataLen bytes with the rent
	// exempt minimum taken from payer.
	Allocate(db ledger.KVStore, payer, account ledger.Address, dataLen int) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller over the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewWalletBucket()}
}

func (c BaseController) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (uint64, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Lamports, nil
}

func (c BaseController) Credit(db ledger.KVStore, addr ledger.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	w, err := c.wallet(db, addr)
	if err != nil {
		return err
	}
	if w.Lamports > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	w.Lamports += amount
	return c.bucket.Put(db, addr, w)
}

func (c BaseController) MoveLamports(db ledger.KVStore, src, dest ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero lamports")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d lamports, need %d", src, sender.Lamports, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient.Lamports > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	sender.Lamports -= amount
	recipient.Lamports += amount

	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, recipient)
}

func (c BaseController) Drain(db ledger.KVStore, src, dest ledger.Address) (uint64, error) {
	amount, err := c.Balance(db, src)
	if err != nil {
		return 0, err
	}
	if amount == 0 || src.Equals(dest) {
		return 0, nil
	}
	if err := c.MoveLamports(db, src, dest, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func (c BaseController) Allocate(db ledger.KVStore, payer, account ledger.Address, dataLen int) error {
	rent := RentExemptMinimum(dataLen)
	if err := c.MoveLamports(db, payer, account, rent); err != nil {
		return errors.Wrap(err, "cannot pay for account storage")
	}
	return nil
}

// wallet returns the stored wallet or an empty one.
func (c BaseController) wallet(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// save stores w, removing empty wallets.
func (c BaseController) save(db ledger.KVStore, addr ledger.Address, w *Wallet) error {
	if w.Lamports == 0 {
		if err := c.bucket.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return c.bucket.Put(db, addr, w)
}
