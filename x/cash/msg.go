package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

const pathSendMsg = "cash/send"

// SendMsg moves lamports between two addresses. Source must sign.
type SendMsg struct {
	Source      ledger.Address `json:"source"`
	Destination ledger.Address `json:"destination"`
	Lamports    uint64         `json:"lamports"`
	Memo        string         `json:"memo,omitempty"`
}

var _ ledger.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure the message is well formed.
func (m *SendMsg) Validate() error {
	var errs error
	if err := m.Source.Validate(); err != nil {
		errs = errors.Wrap(err, "source")
	} else if err := m.Destination.Validate(); err != nil {
		errs = errors.Wrap(err, "destination")
	} else if m.Lamports == 0 {
		errs = errors.Wrap(errors.ErrAmount, "lamports")
	} else if len(m.Memo) > 128 {
		errs = errors.Wrap(errors.ErrInput, "memo too long")
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.RawBytes(1, m.Source)
	e.RawBytes(2, m.Destination)
	e.Uvarint(3, m.Lamports)
	e.String(4, m.Memo)
	return e.Bytes(), nil
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Source, err = d.RawBytes()
		case 2:
			m.Destination, err = d.RawBytes()
		case 3:
			m.Lamports, err = d.Uvarint()
		case 4:
			m.Memo, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
