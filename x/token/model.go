package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

const (
	// MintSize is the storage size of a mint, used to compute its rent.
	MintSize = 82
	// AccountSize is the storage size of a token account.
	AccountSize = 165

	// MaxDecimals is the highest supported precision.
	MaxDecimals = 18
)

// Mint defines an asset.
type Mint struct {
	// Authority may create new tokens.
	Authority ledger.Address `json:"authority"`
	Decimals  uint32         `json:"decimals"`
	Supply    uint64         `json:"supply"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals above %d", MaxDecimals)
	}
	return nil
}

func (m *Mint) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Authority)
	e.Uvarint(2, uint64(m.Decimals))
	e.Uvarint(3, m.Supply)
	return e.Bytes(), nil
}

func (m *Mint) Unmarshal(raw []byte) error {
	*m = Mint{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Authority, err = d.RawBytes()
		case 2:
			var v uint64
			v, err = d.Uvarint()
			m.Decimals = uint32(v)
		case 3:
			m.Supply, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// Account holds a balance of one mint for one owner.
type Account struct {
	Mint   ledger.Address `json:"mint"`
	Owner  ledger.Address `json:"owner"`
	Amount uint64         `json:"amount"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (a *Account) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, a.Mint)
	e.RawBytes(2, a.Owner)
	e.Uvarint(3, a.Amount)
	return e.Bytes(), nil
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			a.Mint, err = d.RawBytes()
		case 2:
			a.Owner, err = d.RawBytes()
		case 3:
			a.Amount, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// NewMintBucket returns a bucket of mints keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mint", &Mint{})
}

// NewAccountBucket returns a bucket of token accounts keyed by address and
// indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenacct", &Account{},
		orm.WithIndex("owner", accountOwner, false),
	)
}

func accountOwner(m orm.Model) ([][]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return [][]byte{a.Owner}, nil
}

// RegisterQuery exposes mints under /mints and token accounts under
// /accounts.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/mints", NewMintBucket())
	qr.Register("/accounts", NewAccountBucket())
}
