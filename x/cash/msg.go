package cash

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins from one ordinary wallet to another.
type SendMsg struct {
	Metadata    *weave.Metadata
	Source      weave.Address
	Destination weave.Address
	Amount      *coin.Coin
	Memo        string
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if coin.IsEmpty(m.Amount) {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if m.Metadata != nil {
		enc.Message(1, m.Metadata)
	}
	enc.Bytes(2, m.Source)
	enc.Bytes(3, m.Destination)
	if m.Amount != nil {
		enc.Message(4, m.Amount)
	}
	enc.String(5, m.Memo)
	return enc.Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = dec.Message(wire, m.Metadata)
		case 2:
			m.Source, err = dec.Bytes(wire)
		case 3:
			m.Destination, err = dec.Bytes(wire)
		case 4:
			m.Amount = &coin.Coin{}
			err = dec.Message(wire, m.Amount)
		case 5:
			m.Memo, err = dec.String(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "send msg")
		}
	}
	return nil
}
