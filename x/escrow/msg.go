package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const (
	pathInitializeMsg = "escrow/initialize"
	pathRefundMsg     = "escrow/refund"
	pathTakeMsg       = "escrow/take"
)

// InitializeMsg opens an offer: Offered of MintA from MakerAtaA are locked
// in Vault in exchange for Wanted of MintB. Escrow and Vault must be the
// addresses derived from Maker and ID.
type InitializeMsg struct {
	Maker     ledger.Address `json:"maker"`
	MintA     ledger.Address `json:"mint_a"`
	MintB     ledger.Address `json:"mint_b"`
	MakerAtaA ledger.Address `json:"maker_ata_a"`
	Escrow    ledger.Address `json:"escrow"`
	Vault     ledger.Address `json:"vault"`
	ID        uint64         `json:"id"`
	Offered   uint64         `json:"offered"`
	Wanted    uint64         `json:"wanted"`
}

var _ ledger.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	refs := []struct {
		name string
		addr ledger.Address
	}{
		{"maker", m.Maker},
		{"mint a", m.MintA},
		{"mint b", m.MintB},
		{"maker ata a", m.MakerAtaA},
		{"escrow", m.Escrow},
		{"vault", m.Vault},
	}
	for _, r := range refs {
		if err := r.addr.Validate(); err != nil {
			return errors.Wrap(err, r.name)
		}
	}
	if m.Offered == 0 {
		return errors.Wrap(errors.ErrAmount, "offered must be positive")
	}
	if m.Wanted == 0 {
		return errors.Wrap(errors.ErrAmount, "wanted must be positive")
	}
	return nil
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Maker)
	e.RawBytes(2, m.MintA)
	e.RawBytes(3, m.MintB)
	e.RawBytes(4, m.MakerAtaA)
	e.RawBytes(5, m.Escrow)
	e.RawBytes(6, m.Vault)
	e.Uvarint(7, m.ID)
	e.Uvarint(8, m.Offered)
	e.Uvarint(9, m.Wanted)
	return e.Bytes(), nil
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	*m = InitializeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Maker, err = d.RawBytes()
		case 2:
			m.MintA, err = d.RawBytes()
		case 3:
			m.MintB, err = d.RawBytes()
		case 4:
			m.MakerAtaA, err = d.RawBytes()
		case 5:
			m.Escrow, err = d.RawBytes()
		case 6:
			m.Vault, err = d.RawBytes()
		case 7:
			m.ID, err = d.Uvarint()
		case 8:
			m.Offered, err = d.Uvarint()
		case 9:
			m.Wanted, err = d.Uvarint()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// RefundMsg cancels an offer. Only the maker of the record can refund it.
type RefundMsg struct {
	Maker     ledger.Address `json:"maker"`
	Escrow    ledger.Address `json:"escrow"`
	MakerAtaA ledger.Address `json:"maker_ata_a"`
	Vault     ledger.Address `json:"vault"`
}

var _ ledger.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.MakerAtaA.Validate(); err != nil {
		return errors.Wrap(err, "maker ata a")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Maker)
	e.RawBytes(2, m.Escrow)
	e.RawBytes(3, m.MakerAtaA)
	e.RawBytes(4, m.Vault)
	return e.Bytes(), nil
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	*m = RefundMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Maker, err = d.RawBytes()
		case 2:
			m.Escrow, err = d.RawBytes()
		case 3:
			m.MakerAtaA, err = d.RawBytes()
		case 4:
			m.Vault, err = d.RawBytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// TakeMsg accepts an offer. Taker pays Wanted of MintB from TakerAtaB to
// MakerAtaB and receives the vault content in TakerAtaA.
type TakeMsg struct {
	Taker     ledger.Address `json:"taker"`
	Maker     ledger.Address `json:"maker"`
	Escrow    ledger.Address `json:"escrow"`
	TakerAtaA ledger.Address `json:"taker_ata_a"`
	TakerAtaB ledger.Address `json:"taker_ata_b"`
	MakerAtaB ledger.Address `json:"maker_ata_b"`
	Vault     ledger.Address `json:"vault"`
}

var _ ledger.Msg = (*TakeMsg)(nil)

func (TakeMsg) Path() string {
	return pathTakeMsg
}

func (m *TakeMsg) Validate() error {
	refs := []struct {
		name string
		addr ledger.Address
	}{
		{"taker", m.Taker},
		{"maker", m.Maker},
		{"escrow", m.Escrow},
		{"taker ata a", m.TakerAtaA},
		{"taker ata b", m.TakerAtaB},
		{"maker ata b", m.MakerAtaB},
		{"vault", m.Vault},
	}
	for _, r := range refs {
		if err := r.addr.Validate(); err != nil {
			return errors.Wrap(err, r.name)
		}
	}
	return nil
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Taker)
	e.RawBytes(2, m.Maker)
	e.RawBytes(3, m.Escrow)
	e.RawBytes(4, m.TakerAtaA)
	e.RawBytes(5, m.TakerAtaB)
	e.RawBytes(6, m.MakerAtaB)
	e.RawBytes(7, m.Vault)
	return e.Bytes(), nil
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	*m = TakeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Taker, err = d.RawBytes()
		case 2:
			m.Maker, err = d.RawBytes()
		case 3:
			m.Escrow, err = d.RawBytes()
		case 4:
			m.TakerAtaA, err = d.RawBytes()
		case 5:
			m.TakerAtaB, err = d.RawBytes()
		case 6:
			m.MakerAtaB, err = d.RawBytes()
		case 7:
			m.Vault, err = d.RawBytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
