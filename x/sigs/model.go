package sigs

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// UserData tracks the next expected sequence of a signer.
type UserData struct {
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence accepts only the next sequence and bumps it.
func (u *UserData) CheckAndIncrementSequence(check int64) error {
	if u.Sequence == math.MaxInt64 {
		return errors.Wrap(ErrInvalidSequence, "sequence exhausted")
	}
	if u.Sequence != check {
		return errors.Wrapf(ErrInvalidSequence, "mismatch %d != %d", check, u.Sequence)
	}
	u.Sequence++
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	if err := encodePubkey(e, 1, u.Pubkey); err != nil {
		return nil, err
	}
	e.Varint(2, u.Sequence)
	return e.Bytes(), nil
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			u.Pubkey, err = decodePubkey(d)
		case 2:
			u.Sequence, err = d.Varint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// StdSignature is a signature of one signer over a transaction.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature []byte            `json:"signature"`
	Sequence  int64             `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	if err := encodePubkey(e, 1, s.Pubkey); err != nil {
		return nil, err
	}
	e.RawBytes(2, s.Signature)
	e.Varint(3, s.Sequence)
	return e.Bytes(), nil
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			s.Pubkey, err = decodePubkey(d)
		case 2:
			s.Signature, err = d.RawBytes()
		case 3:
			s.Sequence, err = d.Varint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// The public key is a generated-style protobuf message, encoded with the
// reflection based protobuf marshaller.
func encodePubkey(e *codec.Encoder, field int, pub *crypto.PublicKey) error {
	if pub == nil {
		return nil
	}
	raw, err := proto.Marshal(pub)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	e.RawBytes(field, raw)
	return nil
}

func decodePubkey(d *codec.Decoder) (*crypto.PublicKey, error) {
	raw, err := d.RawBytes()
	if err != nil {
		return nil, err
	}
	var pub crypto.PublicKey
	if err := proto.Unmarshal(raw, &pub); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &pub, nil
}

// NewBucket returns a bucket of UserData keyed by signer address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

// RegisterQuery exposes signer sequences under /auth.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/auth", NewBucket())
}
