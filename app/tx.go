package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/sigs"
)

// Tx is the envelope of every submitted transaction: a message with its
// path plus the signatures over both.
type Tx struct {
	Path       string
	Msg        []byte
	Signatures []*sigs.StdSignature

	msg ledger.Msg
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps msg in an unsigned transaction.
func NewTx(msg ledger.Msg) (*Tx, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{Path: msg.Path(), Msg: raw, msg: msg}, nil
}

// GetMsg returns the decoded message. Transactions read from bytes must
// pass through a TxDecoder first.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "message not decoded")
	}
	return tx.msg, nil
}

// GetSignatures returns all signatures.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Path: tx.Path, Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends the signature of signer for the given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.String(1, tx.Path)
	e.RawBytes(2, tx.Msg)
	for i, sig := range tx.Signatures {
		if sig == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "signature %d", i)
		}
		if err := e.Message(3, sig); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return e.Bytes(), nil
}

// Unmarshal reads the envelope. The message stays encoded.
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			tx.Path, err = d.String()
		case 2:
			tx.Msg, err = d.RawBytes()
		case 3:
			var sig sigs.StdSignature
			if err = d.Message(&sig); err == nil {
				tx.Signatures = append(tx.Signatures, &sig)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// TxDecoder returns a decoder resolving messages through r.
func TxDecoder(r *Router) ledger.TxDecoder {
	return func(raw []byte) (ledger.Tx, error) {
		var tx Tx
		if err := tx.Unmarshal(raw); err != nil {
			return nil, errors.Wrap(err, "decode tx")
		}
		msg, err := r.DecodeMsg(tx.Path, tx.Msg)
		if err != nil {
			return nil, err
		}
		tx.msg = msg
		return &tx, nil
	}
}
