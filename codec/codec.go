package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-escrow/errors"
)

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Unmarshaller can load its state from a binary representation.
type Unmarshaller interface {
	Unmarshal([]byte) error
}

// Encoder writes protobuf encoded fields. The first error encountered is
// kept and returned by Result, so callers can chain writes without checking
// each of them.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	if e.err != nil {
		return
	}
	e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes a varint field. Zero is not written.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 || e.err != nil {
		return
	}
	e.key(field, proto.WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
}

// Int64 writes a signed varint field using two's complement, as protobuf
// does for the int64 type.
func (e *Encoder) Int64(field int, v int64) {
	e.Uint64(field, uint64(v))
}

// Bytes writes a length delimited field. Empty values are not written.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 || e.err != nil {
		return
	}
	e.key(field, proto.WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
}

// String writes a string field. Empty values are not written.
func (e *Encoder) String(field int, s string) {
	e.Bytes(field, []byte(s))
}

// Message writes an embedded message. Unlike other fields, an embedded
// message is always written so that its presence is preserved, even if it
// serializes to no bytes.
func (e *Encoder) Message(field int, m Marshaller) {
	if e.err != nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = errors.Wrapf(err, "field %d", field)
		return
	}
	e.key(field, proto.WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
}

// Result returns the encoded bytes or the first error that occurred.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(e.err, "encode")
	}
	return e.buf.Bytes(), nil
}

// Decoder reads protobuf encoded fields one by one.
//
//   dec := codec.NewDecoder(raw)
//   for dec.More() {
//     field, wire, err := dec.Next()
//     ...
//   }
type Decoder struct {
	raw []byte
	idx int
}

// NewDecoder returns a decoder reading given bytes.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// More returns true if there is at least one more field to read.
func (d *Decoder) More() bool {
	return d.idx < len(d.raw)
}

// Next reads the key of the next field and returns its number and wire type.
func (d *Decoder) Next() (field int, wire int, err error) {
	v, err := d.varint()
	if err != nil {
		return 0, 0, errors.Wrap(err, "field key")
	}
	field = int(v >> 3)
	if field <= 0 {
		return 0, 0, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	return field, int(v & 7), nil
}

func (d *Decoder) varint() (uint64, error) {
	v, n := proto.DecodeVarint(d.raw[d.idx:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.idx += n
	return v, nil
}

// Uint64 reads the value of a varint field.
func (d *Decoder) Uint64(wire int) (uint64, error) {
	if wire != proto.WireVarint {
		return 0, errors.Wrapf(errors.ErrInput, "wire type %d is not a varint", wire)
	}
	return d.varint()
}

// Int64 reads the value of a signed varint field.
func (d *Decoder) Int64(wire int) (int64, error) {
	v, err := d.Uint64(wire)
	return int64(v), err
}

// Bytes reads the value of a length delimited field. Returned slice is a
// copy and does not share memory with the decoded input.
func (d *Decoder) Bytes(wire int) ([]byte, error) {
	if wire != proto.WireBytes {
		return nil, errors.Wrapf(errors.ErrInput, "wire type %d is not length delimited", wire)
	}
	size, err := d.varint()
	if err != nil {
		return nil, err
	}
	end := d.idx + int(size)
	if end < d.idx || end > len(d.raw) {
		return nil, errors.Wrap(errors.ErrInput, "length out of range")
	}
	b := make([]byte, size)
	copy(b, d.raw[d.idx:end])
	d.idx = end
	return b, nil
}

// String reads the value of a string field.
func (d *Decoder) String(wire int) (string, error) {
	b, err := d.Bytes(wire)
	return string(b), err
}

// Message reads an embedded message into given destination.
func (d *Decoder) Message(wire int, dest Unmarshaller) error {
	b, err := d.Bytes(wire)
	if err != nil {
		return err
	}
	return dest.Unmarshal(b)
}

// Skip discards the value of a field that is not known to the reader.
func (d *Decoder) Skip(wire int) error {
	switch wire {
	case proto.WireVarint:
		_, err := d.varint()
		return err
	case proto.WireBytes:
		_, err := d.Bytes(wire)
		return err
	case proto.WireFixed64:
		return d.advance(8)
	case proto.WireFixed32:
		return d.advance(4)
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", wire)
	}
}

func (d *Decoder) advance(n int) error {
	if d.idx+n > len(d.raw) {
		return errors.Wrap(errors.ErrInput, "unexpected end of input")
	}
	d.idx += n
	return nil
}
