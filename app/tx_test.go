package app

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRoundTrip(t *testing.T) {
	r := NewRouter()
	r.Handle(&cash.SendMsg{}, &ledgertest.Handler{})
	decode := TxDecoder(r)

	alice := ledgertest.SeededKey("alice")
	msg := &cash.SendMsg{
		Source:      alice.Address(),
		Destination: ledgertest.NewAddress(),
		Lamports:    1000,
	}
	tx, err := NewTx(msg)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(alice, "test-chain", 3))

	raw, err := tx.Marshal()
	require.NoError(t, err)

	got, err := decode(raw)
	require.NoError(t, err)
	gotMsg, err := got.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg, gotMsg)
	assert.Equal(t, "cash/send", ledger.GetPath(got))

	sigs := got.(*Tx).GetSignatures()
	require.Len(t, sigs, 1)
	assert.Equal(t, int64(3), sigs[0].Sequence)
	assert.True(t, alice.Address().Equals(sigs[0].Pubkey.Address()))
}

func TestTxSignBytesIgnoreSignatures(t *testing.T) {
	tx, err := NewTx(&cash.SendMsg{
		Source:      ledgertest.NewAddress(),
		Destination: ledgertest.NewAddress(),
		Lamports:    1,
	})
	require.NoError(t, err)
	before, err := tx.GetSignBytes()
	require.NoError(t, err)

	require.NoError(t, tx.Sign(ledgertest.NewKey(), "test-chain", 0))
	after, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTxDecoderErrors(t *testing.T) {
	r := NewRouter()
	r.Handle(&cash.SendMsg{}, &ledgertest.Handler{})
	decode := TxDecoder(r)

	unknown := Tx{Path: "cash/other", Msg: []byte{1}}
	unknownRaw, err := unknown.Marshal()
	require.NoError(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"garbage": {
			raw:     []byte{0xff, 0xff, 0xff},
			wantErr: errors.ErrInput,
		},
		"unknown path": {
			raw:     unknownRaw,
			wantErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := decode(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}

	var undecoded Tx
	_, err = undecoded.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))
}
