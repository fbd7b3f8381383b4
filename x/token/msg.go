package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const (
	pathCreateMintMsg    = "token/create_mint"
	pathCreateAccountMsg = "token/create_account"
	pathMintToMsg        = "token/mint_to"
	pathTransferMsg      = "token/transfer"
)

// CreateMintMsg creates a new asset. Both Payer and Mint must sign, the
// mint signature proves nobody else controls that address.
type CreateMintMsg struct {
	Payer     ledger.Address `json:"payer"`
	Mint      ledger.Address `json:"mint"`
	Authority ledger.Address `json:"authority"`
	Decimals  uint32         `json:"decimals"`
}

var _ ledger.Msg = (*CreateMintMsg)(nil)

func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

func (m *CreateMintMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals above %d", MaxDecimals)
	}
	return nil
}

func (m *CreateMintMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Payer)
	e.RawBytes(2, m.Mint)
	e.RawBytes(3, m.Authority)
	e.Uvarint(4, uint64(m.Decimals))
	return e.Bytes(), nil
}

func (m *CreateMintMsg) Unmarshal(raw []byte) error {
	*m = CreateMintMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Payer, err = d.RawBytes()
		case 2:
			m.Mint, err = d.RawBytes()
		case 3:
			m.Authority, err = d.RawBytes()
		case 4:
			var v uint64
			v, err = d.Uvarint()
			m.Decimals = uint32(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// CreateAccountMsg creates the associated account of Owner for Mint. Anyone
// may pay for it.
type CreateAccountMsg struct {
	Payer ledger.Address `json:"payer"`
	Owner ledger.Address `json:"owner"`
	Mint  ledger.Address `json:"mint"`
}

var _ ledger.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Payer)
	e.RawBytes(2, m.Owner)
	e.RawBytes(3, m.Mint)
	return e.Bytes(), nil
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Payer, err = d.RawBytes()
		case 2:
			m.Owner, err = d.RawBytes()
		case 3:
			m.Mint, err = d.RawBytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// MintToMsg creates new tokens. The mint authority must sign.
type MintToMsg struct {
	Mint        ledger.Address `json:"mint"`
	Destination ledger.Address `json:"destination"`
	Amount      uint64         `json:"amount"`
}

var _ ledger.Msg = (*MintToMsg)(nil)

func (MintToMsg) Path() string {
	return pathMintToMsg
}

func (m *MintToMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	return nil
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Mint)
	e.RawBytes(2, m.Destination)
	e.Uvarint(3, m.Amount)
	return e.Bytes(), nil
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	*m = MintToMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Mint, err = d.RawBytes()
		case 2:
			m.Destination, err = d.RawBytes()
		case 3:
			m.Amount, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// TransferMsg moves tokens between two accounts of the same mint. The owner
// of the source account must sign.
type TransferMsg struct {
	Source      ledger.Address `json:"source"`
	Destination ledger.Address `json:"destination"`
	Amount      uint64         `json:"amount"`
}

var _ ledger.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Source)
	e.RawBytes(2, m.Destination)
	e.Uvarint(3, m.Amount)
	return e.Bytes(), nil
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Source, err = d.RawBytes()
		case 2:
			m.Destination, err = d.RawBytes()
		case 3:
			m.Amount, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
