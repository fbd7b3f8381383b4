/*
Package codec writes and reads the protobuf wire format field by field.

Models implement their own Marshal and Unmarshal with it, the same shape
generated protobuf code has, without requiring generated code:

	func (m *Wallet) Marshal() ([]byte, error) {
		e := codec.NewEncoder()
		e.Uvarint(1, m.Lamports)
		return e.Bytes(), nil
	}
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Encoder builds a protobuf message. Zero values are omitted as in proto3.
type Encoder struct {
	buf *proto.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	_ = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uvarint writes an unsigned integer field.
func (e *Encoder) Uvarint(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, proto.WireVarint)
	_ = e.buf.EncodeVarint(v)
}

// Varint writes a signed integer field.
func (e *Encoder) Varint(field int, v int64) {
	e.Uvarint(field, uint64(v))
}

// Bool writes a boolean field.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uvarint(field, 1)
	}
}

// RawBytes writes a length delimited field.
func (e *Encoder) RawBytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.key(field, proto.WireBytes)
	_ = e.buf.EncodeRawBytes(b)
}

// String writes a string field.
func (e *Encoder) String(field int, s string) {
	e.RawBytes(field, []byte(s))
}

// Message writes a nested message. A nil message is omitted.
func (e *Encoder) Message(field int, m interface{ Marshal() ([]byte, error) }) error {
	if m == nil {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	e.key(field, proto.WireBytes)
	return e.buf.EncodeRawBytes(raw)
}

// Bytes returns the encoded message.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Decoder reads a protobuf message field by field.
//
//	d := codec.NewDecoder(raw)
//	for d.Next() {
//		switch d.Field() {
//		case 1:
//			m.Lamports, err = d.Uvarint()
//		default:
//			err = d.Skip()
//		}
//	}
//	return d.Err()
type Decoder struct {
	raw   []byte
	pos   int
	field int
	wire  int
	err   error
}

// NewDecoder returns a Decoder reading raw.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// Next advances to the next field. It returns false at the end of the
// message or on the first error.
func (d *Decoder) Next() bool {
	if d.err != nil || d.pos >= len(d.raw) {
		return false
	}
	k, err := d.varint()
	if err != nil {
		return false
	}
	d.field = int(k >> 3)
	d.wire = int(k & 7)
	if d.field <= 0 {
		d.fail(errors.Wrap(errors.ErrInput, "invalid field number"))
		return false
	}
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Uvarint reads the current field as an unsigned integer.
func (d *Decoder) Uvarint() (uint64, error) {
	if err := d.expect(proto.WireVarint); err != nil {
		return 0, err
	}
	return d.varint()
}

// Varint reads the current field as a signed integer.
func (d *Decoder) Varint() (int64, error) {
	v, err := d.Uvarint()
	return int64(v), err
}

// Bool reads the current field as a boolean.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uvarint()
	return v != 0, err
}

// RawBytes reads the current field as a length delimited value. The result
// is a copy.
func (d *Decoder) RawBytes() ([]byte, error) {
	if err := d.expect(proto.WireBytes); err != nil {
		return nil, err
	}
	b, err := d.take()
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

// String reads the current field as a string.
func (d *Decoder) String() (string, error) {
	b, err := d.RawBytes()
	return string(b), err
}

// Message reads the current field into m.
func (d *Decoder) Message(m interface{ Unmarshal([]byte) error }) error {
	raw, err := d.RawBytes()
	if err != nil {
		return err
	}
	return d.fail(m.Unmarshal(raw))
}

// Skip ignores the current field.
func (d *Decoder) Skip() error {
	switch d.wire {
	case proto.WireVarint:
		_, err := d.varint()
		return err
	case proto.WireBytes:
		_, err := d.take()
		return err
	case proto.WireFixed64:
		return d.advance(8)
	case proto.WireFixed32:
		return d.advance(4)
	default:
		return d.fail(errors.Wrapf(errors.ErrInput, "unsupported wire type %d", d.wire))
	}
}

// Err returns the first error the decoder ran into.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) varint() (uint64, error) {
	v, n := proto.DecodeVarint(d.raw[d.pos:])
	if n == 0 {
		return 0, d.fail(errors.Wrap(errors.ErrInput, "malformed varint"))
	}
	d.pos += n
	return v, nil
}

// take reads a length prefixed chunk without copying it.
func (d *Decoder) take() ([]byte, error) {
	l, err := d.varint()
	if err != nil {
		return nil, err
	}
	if l > uint64(len(d.raw)-d.pos) {
		return nil, d.fail(errors.Wrap(errors.ErrInput, "length out of range"))
	}
	b := d.raw[d.pos : d.pos+int(l)]
	d.pos += int(l)
	return b, nil
}

func (d *Decoder) advance(n int) error {
	if n > len(d.raw)-d.pos {
		return d.fail(errors.Wrap(errors.ErrInput, "unexpected end of input"))
	}
	d.pos += n
	return nil
}

func (d *Decoder) expect(wire int) error {
	if d.wire != wire {
		return d.fail(errors.Wrapf(errors.ErrInput, "field %d: wire type %d, want %d", d.field, d.wire, wire))
	}
	return nil
}

// fail records err as the decoder error unless one is already set.
func (d *Decoder) fail(err error) error {
	if err == nil {
		return nil
	}
	if d.err == nil {
		d.err = err
	}
	return d.err
}
