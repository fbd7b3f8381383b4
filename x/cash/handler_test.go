package cash

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestSendHandler(t *testing.T) {
	alice := ledgertest.NewAddress()
	bob := ledgertest.NewAddress()

	cases := map[string]struct {
		signer         ledger.Address
		msg            ledger.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantAlice      uint64
		wantBob        uint64
	}{
		"send": {
			signer:    alice,
			msg:       &SendMsg{Source: alice, Destination: bob, Lamports: 30},
			wantAlice: 70,
			wantBob:   30,
		},
		"missing signature": {
			signer:         bob,
			msg:            &SendMsg{Source: alice, Destination: bob, Lamports: 30},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantAlice:      100,
		},
		"too poor": {
			signer:         alice,
			msg:            &SendMsg{Source: alice, Destination: bob, Lamports: 101},
			wantDeliverErr: errors.ErrInsufficientAmount,
			wantAlice:      100,
		},
		"invalid message": {
			signer:         alice,
			msg:            &SendMsg{Source: alice, Destination: bob},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
			wantAlice:      100,
		},
		"wrong message type": {
			signer:         alice,
			msg:            &ledgertest.Msg{RoutePath: pathSendMsg},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
			wantAlice:      100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := NewController()
			assert.Nil(t, c.Credit(db, alice, 100))

			h := NewSendHandler(&ledgertest.Auth{Signer: tc.signer}, c)
			tx := &ledgertest.Tx{Msg: tc.msg}
			ctx := context.Background()

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			assert.IsErr(t, tc.wantCheckErr, err)
			cache.Discard()

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantDeliverErr, err)

			got, err := c.Balance(db, alice)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = c.Balance(db, bob)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestSendMsgSerialization(t *testing.T) {
	msg := &SendMsg{
		Source:      ledgertest.NewAddress(),
		Destination: ledgertest.NewAddress(),
		Lamports:    12345,
		Memo:        "rent",
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)
}
