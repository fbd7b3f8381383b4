package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/orm"
)

// Wallet holds the native balance of one address.
type Wallet struct {
	Lamports uint64 `json:"lamports"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate always succeeds, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uvarint(1, w.Lamports)
	return e.Bytes(), nil
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			w.Lamports, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// NewWalletBucket returns a bucket of wallets keyed by address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// RegisterQuery exposes wallets under /wallets.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/wallets", NewWalletBucket())
}
