package token

import (
	"context"
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/cash"
)

// Controller is the functionality other modules need to hold and move
// tokens.
type Controller interface {
	// AssociatedAddress returns the canonical account of owner for mint.
	AssociatedAddress(owner, mint ledger.Address) (ledger.Address, error)

	// Mint loads a mint. ErrNotFound if it does not exist.
	Mint(db ledger.ReadOnlyKVStore, mint ledger.Address) (*Mint, error)

	// Account loads a token account. ErrNotFound if it does not exist.
	Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error)

	// CreateMint creates a mint at addr, paid by payer.
	CreateMint(db ledger.KVStore, payer, addr, authority ledger.Address, decimals uint32) error

	// InitializeAccount creates an empty token account at addr, paid by
	// payer. ErrDuplicate if an account already exists there.
	InitializeAccount(db ledger.KVStore, payer, addr, mint, owner ledger.Address) error

	// InitializeAssociated creates the associated account of owner for
	// mint and returns its address.
	InitializeAssociated(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error)

	// MintTo creates new tokens in dest. auth must authenticate the
	// mint authority.
	MintTo(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, mint, dest ledger.Address, amount uint64) error

	// Transfer moves amount from one account to another of the same mint.
	// auth must authenticate the owner of from.
	Transfer(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, from, to ledger.Address, amount uint64) error

	// CloseAccount deletes an empty account and sends its rent lamports
	// to dest. auth must authenticate the owner.
	CloseAccount(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, account, dest ledger.Address) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	conf     Config
	cash     cash.Controller
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller paying rent through cashCtrl.
func NewController(conf Config, cashCtrl cash.Controller) BaseController {
	return BaseController{
		conf:     conf,
		cash:     cashCtrl,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c BaseController) AssociatedAddress(owner, mint ledger.Address) (ledger.Address, error) {
	return c.conf.AssociatedAddress(owner, mint)
}

func (c BaseController) Mint(db ledger.ReadOnlyKVStore, mint ledger.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, mint, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c BaseController) Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c BaseController) CreateMint(db ledger.KVStore, payer, addr, authority ledger.Address, decimals uint32) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := c.mints.Has(db, addr); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", addr)
	}
	mint := &Mint{Authority: authority, Decimals: decimals}
	if err := mint.Validate(); err != nil {
		return err
	}
	if err := c.cash.Allocate(db, payer, addr, MintSize); err != nil {
		return err
	}
	return c.mints.Put(db, addr, mint)
}

func (c BaseController) InitializeAccount(db ledger.KVStore, payer, addr, mint, owner ledger.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := c.mints.Has(db, mint); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := c.accounts.Has(db, addr); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "token account %s", addr)
	}
	acct := &Account{Mint: mint, Owner: owner}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := c.cash.Allocate(db, payer, addr, AccountSize); err != nil {
		return err
	}
	return c.accounts.Put(db, addr, acct)
}

func (c BaseController) InitializeAssociated(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error) {
	addr, err := c.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	if err := c.InitializeAccount(db, payer, addr, mint, owner); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c BaseController) MintTo(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, mint, dest ledger.Address, amount uint64) error {
	m, err := c.Mint(db, mint)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	if !auth.HasAddress(ctx, m.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	acct, err := c.Account(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !acct.Mint.Equals(mint) {
		return errors.Wrap(errors.ErrInput, "destination holds another mint")
	}
	if m.Supply > math.MaxUint64-amount || acct.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acct.Amount += amount
	if err := c.mints.Put(db, mint, m); err != nil {
		return err
	}
	return c.accounts.Put(db, dest, acct)
}

func (c BaseController) Transfer(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, from, to ledger.Address, amount uint64) error {
	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrap(errors.ErrInput, "mint mismatch")
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s holds %d, need %d", from, src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

func (c BaseController) CloseAccount(ctx context.Context, db ledger.KVStore, auth ledger.Authenticator, account, dest ledger.Address) error {
	acct, err := c.Account(db, account)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, acct.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	if acct.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account still holds %d tokens", acct.Amount)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := c.accounts.Delete(db, account); err != nil {
		return err
	}
	if _, err := c.cash.Drain(db, account, dest); err != nil {
		return errors.Wrap(err, "cannot return rent")
	}
	return nil
}
