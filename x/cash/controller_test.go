package cash

import (
	"math"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestMoveLamports(t *testing.T) {
	alice := ledgertest.NewAddress()
	bob := ledgertest.NewAddress()

	cases := map[string]struct {
		initial   map[string]uint64
		src, dest ledger.Address
		amount    uint64
		wantErr   *errors.Error
		wantSrc   uint64
		wantDest  uint64
	}{
		"move part": {
			initial:  map[string]uint64{string(alice): 100},
			src:      alice,
			dest:     bob,
			amount:   40,
			wantSrc:  60,
			wantDest: 40,
		},
		"move all": {
			initial:  map[string]uint64{string(alice): 100, string(bob): 1},
			src:      alice,
			dest:     bob,
			amount:   100,
			wantSrc:  0,
			wantDest: 101,
		},
		"insufficient": {
			initial:  map[string]uint64{string(alice): 10},
			src:      alice,
			dest:     bob,
			amount:   11,
			wantErr:  errors.ErrInsufficientAmount,
			wantSrc:  10,
			wantDest: 0,
		},
		"unknown sender": {
			src:     alice,
			dest:    bob,
			amount:  1,
			wantErr: errors.ErrInsufficientAmount,
		},
		"overflow": {
			initial:  map[string]uint64{string(alice): 10, string(bob): math.MaxUint64},
			src:      alice,
			dest:     bob,
			amount:   1,
			wantErr:  errors.ErrOverflow,
			wantSrc:  10,
			wantDest: math.MaxUint64,
		},
		"zero": {
			initial: map[string]uint64{string(alice): 10},
			src:     alice,
			dest:    bob,
			wantErr: errors.ErrAmount,
			wantSrc: 10,
		},
		"to self": {
			initial:  map[string]uint64{string(alice): 10},
			src:      alice,
			dest:     alice,
			amount:   5,
			wantSrc:  10,
			wantDest: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := NewController()
			for addr, amount := range tc.initial {
				assert.Nil(t, c.Credit(db, ledger.Address(addr), amount))
			}

			err := c.MoveLamports(db, tc.src, tc.dest, tc.amount)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			got, err := c.Balance(db, tc.src)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, got)
			got, err = c.Balance(db, tc.dest)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}

func TestDrainAndAllocate(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	payer := ledgertest.NewAddress()
	account := ledgertest.NewAddress()
	dest := ledgertest.NewAddress()

	rent := RentExemptMinimum(165)
	assert.Equal(t, uint64(2039280), rent)

	assert.IsErr(t, errors.ErrInsufficientAmount, c.Allocate(db, payer, account, 165))

	assert.Nil(t, c.Credit(db, payer, rent+5))
	assert.Nil(t, c.Allocate(db, payer, account, 165))
	got, err := c.Balance(db, account)
	assert.Nil(t, err)
	assert.Equal(t, rent, got)

	moved, err := c.Drain(db, account, dest)
	assert.Nil(t, err)
	assert.Equal(t, rent, moved)
	got, err = c.Balance(db, account)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)
	assert.IsErr(t, errors.ErrNotFound, NewWalletBucket().Has(db, account))

	moved, err = c.Drain(db, account, dest)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), moved)
}

func TestCreditOverflow(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	addr := ledgertest.NewAddress()
	assert.Nil(t, c.Credit(db, addr, math.MaxUint64))
	assert.IsErr(t, errors.ErrOverflow, c.Credit(db, addr, 1))
	assert.IsErr(t, errors.ErrInput, c.Credit(db, ledger.Address{1, 2}, 1))
}
