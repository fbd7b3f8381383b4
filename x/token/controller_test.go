package token

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/cash"
)

type fixture struct {
	db        ledger.KVStore
	cash      cash.BaseController
	ctrl      BaseController
	payer     ledger.Address
	authority ledger.Address
	mint      ledger.Address
}

func newFixture(t testing.TB) fixture {
	t.Helper()
	f := fixture{
		db:        store.MemStore(),
		cash:      cash.NewController(),
		payer:     ledgertest.NewAddress(),
		authority: ledgertest.NewAddress(),
		mint:      ledgertest.NewAddress(),
	}
	f.ctrl = NewController(DefaultConfig(), f.cash)
	assert.Nil(t, f.cash.Credit(f.db, f.payer, 100000000))
	assert.Nil(t, f.ctrl.CreateMint(f.db, f.payer, f.mint, f.authority, 6))
	return f
}

// account creates the associated account of owner holding amount tokens.
func (f fixture) account(t testing.TB, owner ledger.Address, amount uint64) ledger.Address {
	t.Helper()
	addr, err := f.ctrl.InitializeAssociated(f.db, f.payer, owner, f.mint)
	assert.Nil(t, err)
	if amount > 0 {
		auth := &ledgertest.Auth{Signer: f.authority}
		assert.Nil(t, f.ctrl.MintTo(context.Background(), f.db, auth, f.mint, addr, amount))
	}
	return addr
}

func (f fixture) balance(t testing.TB, addr ledger.Address) uint64 {
	t.Helper()
	acct, err := f.ctrl.Account(f.db, addr)
	assert.Nil(t, err)
	return acct.Amount
}

func TestCreateMint(t *testing.T) {
	f := newFixture(t)

	m, err := f.ctrl.Mint(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, &Mint{Authority: f.authority, Decimals: 6}, m)

	rent, err := f.cash.Balance(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, cash.RentExemptMinimum(MintSize), rent)

	err = f.ctrl.CreateMint(f.db, f.payer, f.mint, f.authority, 6)
	assert.IsErr(t, errors.ErrDuplicate, err)

	poor := ledgertest.NewAddress()
	err = f.ctrl.CreateMint(f.db, poor, ledgertest.NewAddress(), f.authority, 6)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestInitializeAccount(t *testing.T) {
	f := newFixture(t)
	owner := ledgertest.NewAddress()

	addr, err := f.ctrl.InitializeAssociated(f.db, f.payer, owner, f.mint)
	assert.Nil(t, err)
	want, err := DefaultConfig().AssociatedAddress(owner, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, want, addr)

	acct, err := f.ctrl.Account(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, &Account{Mint: f.mint, Owner: owner}, acct)
	rent, err := f.cash.Balance(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, cash.RentExemptMinimum(AccountSize), rent)

	_, err = f.ctrl.InitializeAssociated(f.db, f.payer, owner, f.mint)
	assert.IsErr(t, errors.ErrDuplicate, err)

	_, err = f.ctrl.InitializeAssociated(f.db, f.payer, owner, ledgertest.NewAddress())
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestAssociatedAddressIsOffCurve(t *testing.T) {
	owner := ledgertest.NewAddress()
	mint := ledgertest.NewAddress()
	addr, err := DefaultConfig().AssociatedAddress(owner, mint)
	assert.Nil(t, err)
	assert.Equal(t, false, ledger.IsOnCurve(addr))

	other, err := DefaultConfig().AssociatedAddress(mint, owner)
	assert.Nil(t, err)
	if addr.Equals(other) {
		t.Fatal("swapped seeds produced the same address")
	}
}

func TestMintTo(t *testing.T) {
	f := newFixture(t)
	dest := f.account(t, ledgertest.NewAddress(), 0)
	ctx := context.Background()

	err := f.ctrl.MintTo(ctx, f.db, &ledgertest.Auth{Signer: ledgertest.NewAddress()}, f.mint, dest, 10)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	auth := &ledgertest.Auth{Signer: f.authority}
	assert.Nil(t, f.ctrl.MintTo(ctx, f.db, auth, f.mint, dest, 10))
	assert.Nil(t, f.ctrl.MintTo(ctx, f.db, auth, f.mint, dest, 5))
	assert.Equal(t, uint64(15), f.balance(t, dest))

	m, err := f.ctrl.Mint(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, uint64(15), m.Supply)
}

func TestTransfer(t *testing.T) {
	alice := ledgertest.NewAddress()
	bob := ledgertest.NewAddress()

	cases := map[string]struct {
		signer    ledger.Address
		amount    uint64
		otherMint bool
		self      bool
		wantErr   *errors.Error
		wantFrom  uint64
		wantTo    uint64
	}{
		"transfer": {
			signer:   alice,
			amount:   40,
			wantFrom: 60,
			wantTo:   40,
		},
		"transfer all": {
			signer:   alice,
			amount:   100,
			wantFrom: 0,
			wantTo:   100,
		},
		"not the owner": {
			signer:   bob,
			amount:   40,
			wantErr:  errors.ErrUnauthorized,
			wantFrom: 100,
		},
		"insufficient": {
			signer:   alice,
			amount:   101,
			wantErr:  errors.ErrInsufficientAmount,
			wantFrom: 100,
		},
		"mint mismatch": {
			signer:    alice,
			amount:    1,
			otherMint: true,
			wantErr:   errors.ErrInput,
			wantFrom:  100,
		},
		"to self": {
			signer:   alice,
			amount:   10,
			self:     true,
			wantFrom: 100,
			wantTo:   100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			from := f.account(t, alice, 100)
			to := f.account(t, bob, 0)
			if tc.otherMint {
				otherMint := ledgertest.NewAddress()
				assert.Nil(t, f.ctrl.CreateMint(f.db, f.payer, otherMint, f.authority, 0))
				var err error
				to, err = f.ctrl.InitializeAssociated(f.db, f.payer, bob, otherMint)
				assert.Nil(t, err)
			}
			if tc.self {
				to = from
			}

			auth := &ledgertest.Auth{Signer: tc.signer}
			err := f.ctrl.Transfer(context.Background(), f.db, auth, from, to, tc.amount)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantFrom, f.balance(t, from))
			assert.Equal(t, tc.wantTo, f.balance(t, to))
		})
	}
}

func TestTransferFromProgramOwnedAccount(t *testing.T) {
	f := newFixture(t)
	program := ledger.NewProgram(ledger.DefaultProgramID("custody"))
	owner, bump, err := program.Derive([]byte("pool"))
	assert.Nil(t, err)

	from := f.account(t, owner, 50)
	to := f.account(t, ledgertest.NewAddress(), 0)
	ctx := context.Background()

	// Nobody holds a key for a program derived owner.
	err = f.ctrl.Transfer(ctx, f.db, &ledgertest.Auth{Signer: ledgertest.NewAddress()}, from, to, 50)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	signer, err := program.Signer(bump, []byte("pool"))
	assert.Nil(t, err)
	assert.Nil(t, f.ctrl.Transfer(ctx, f.db, signer, from, to, 50))
	assert.Equal(t, uint64(50), f.balance(t, to))
}

func TestCloseAccount(t *testing.T) {
	f := newFixture(t)
	owner := ledgertest.NewAddress()
	dest := ledgertest.NewAddress()
	ctx := context.Background()
	auth := &ledgertest.Auth{Signer: owner}

	acct := f.account(t, owner, 5)
	assert.IsErr(t, errors.ErrState, f.ctrl.CloseAccount(ctx, f.db, auth, acct, dest))

	empty := f.account(t, ledgertest.NewAddress(), 0)
	assert.IsErr(t, errors.ErrUnauthorized, f.ctrl.CloseAccount(ctx, f.db, auth, empty, dest))

	sink := f.account(t, dest, 0)
	assert.Nil(t, f.ctrl.Transfer(ctx, f.db, auth, acct, sink, 5))
	assert.Nil(t, f.ctrl.CloseAccount(ctx, f.db, auth, acct, dest))

	_, err := f.ctrl.Account(f.db, acct)
	assert.IsErr(t, errors.ErrNotFound, err)
	lamports, err := f.cash.Balance(f.db, dest)
	assert.Nil(t, err)
	assert.Equal(t, cash.RentExemptMinimum(AccountSize), lamports)
	lamports, err = f.cash.Balance(f.db, acct)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), lamports)

	assert.IsErr(t, errors.ErrNotFound, f.ctrl.CloseAccount(ctx, f.db, auth, acct, dest))
}
