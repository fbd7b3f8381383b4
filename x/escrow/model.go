package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

const (
	discriminatorSize = 8

	// RecordSize is the encoded size of an Escrow: discriminator, id,
	// three addresses, two amounts, vault address and bump.
	RecordSize = discriminatorSize + 8 + 3*ledger.AddressLength + 8 + 8 + ledger.AddressLength + 1
)

// discriminator tags encoded records so that bytes of another account
// type are never read as an escrow.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("account:EscrowState"))
	return h[:discriminatorSize]
}()

// Escrow is the record of one offer. It is immutable from creation until
// it is deleted by Refund or Take.
type Escrow struct {
	ID    uint64         `json:"id"`
	Maker ledger.Address `json:"maker"`
	// MintA is the offered asset, MintB the wanted one.
	MintA   ledger.Address `json:"mint_a"`
	MintB   ledger.Address `json:"mint_b"`
	Offered uint64         `json:"offered"`
	Wanted  uint64         `json:"wanted"`
	Vault   ledger.Address `json:"vault"`
	Bump    uint8          `json:"bump"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate checks the record is complete.
func (e *Escrow) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := e.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if err := e.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if e.Offered == 0 {
		return errors.Wrap(errors.ErrAmount, "offered")
	}
	if e.Wanted == 0 {
		return errors.Wrap(errors.ErrAmount, "wanted")
	}
	return nil
}

// Marshal writes the fixed width layout. Addresses must be valid.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, RecordSize)
	out = append(out, discriminator...)
	out = appendUint64(out, e.ID)
	out = append(out, e.Maker...)
	out = append(out, e.MintA...)
	out = append(out, e.MintB...)
	out = appendUint64(out, e.Offered)
	out = appendUint64(out, e.Wanted)
	out = append(out, e.Vault...)
	out = append(out, e.Bump)
	return out, nil
}

// Unmarshal reads the fixed width layout.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != RecordSize {
		return errors.Wrapf(errors.ErrModel, "escrow record is %d bytes, want %d", len(raw), RecordSize)
	}
	if !bytes.Equal(raw[:discriminatorSize], discriminator) {
		return errors.Wrap(errors.ErrModel, "not an escrow record")
	}
	r := reader{raw: raw[discriminatorSize:]}
	*e = Escrow{
		ID:      r.uint64(),
		Maker:   r.address(),
		MintA:   r.address(),
		MintB:   r.address(),
		Offered: r.uint64(),
		Wanted:  r.uint64(),
		Vault:   r.address(),
		Bump:    r.byte(),
	}
	return nil
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

// reader consumes a buffer of known length.
type reader struct {
	raw []byte
}

func (r *reader) uint64() uint64 {
	v := binary.LittleEndian.Uint64(r.raw)
	r.raw = r.raw[8:]
	return v
}

func (r *reader) address() ledger.Address {
	a := append(ledger.Address(nil), r.raw[:ledger.AddressLength]...)
	r.raw = r.raw[ledger.AddressLength:]
	return a
}

func (r *reader) byte() uint8 {
	v := r.raw[0]
	r.raw = r.raw[1:]
	return v
}

// NewBucket returns the bucket of escrow records keyed by record address
// and indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("maker", makerIndex, false),
	)
}

func makerIndex(m orm.Model) ([][]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return [][]byte{e.Maker}, nil
}

// RegisterQuery exposes records under /escrows. The "maker" mode lists
// all open offers of a maker.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/escrows", NewBucket())
}
