package std

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x/cash"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/sigs"
)

// Tx carries exactly one message together with the signatures of all its
// signers.
type Tx struct {
	Msg        weave.Msg
	Signatures []*sigs.StdSignature
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// Field numbers of the message oneof.
const (
	fieldSend                = 1
	fieldMake                = 2
	fieldTake                = 3
	fieldRefund              = 4
	fieldUpdateConfiguration = 5
	fieldSignatures          = 20
)

// TxDecoder parses a serialized Tx.
func TxDecoder(raw []byte) (weave.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &tx, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func msgField(msg weave.Msg) (int, error) {
	switch msg.(type) {
	case *cash.SendMsg:
		return fieldSend, nil
	case *escrow.MakeMsg:
		return fieldMake, nil
	case *escrow.TakeMsg:
		return fieldTake, nil
	case *escrow.RefundMsg:
		return fieldRefund, nil
	case *escrow.UpdateConfigurationMsg:
		return fieldUpdateConfiguration, nil
	default:
		return 0, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
}

func (tx *Tx) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		enc.Message(field, tx.Msg)
	}
	for _, s := range tx.Signatures {
		enc.Message(fieldSignatures, s)
	}
	return enc.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		var msg weave.Msg
		switch field {
		case fieldSend:
			msg = &cash.SendMsg{}
		case fieldMake:
			msg = &escrow.MakeMsg{}
		case fieldTake:
			msg = &escrow.TakeMsg{}
		case fieldRefund:
			msg = &escrow.RefundMsg{}
		case fieldUpdateConfiguration:
			msg = &escrow.UpdateConfigurationMsg{}
		case fieldSignatures:
			var s sigs.StdSignature
			if err := dec.Message(wire, &s); err != nil {
				return errors.Wrap(err, "signature")
			}
			tx.Signatures = append(tx.Signatures, &s)
			continue
		default:
			if err := dec.Skip(wire); err != nil {
				return err
			}
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrInput, "more than one message")
		}
		if err := dec.Message(wire, msg); err != nil {
			return errors.Wrapf(err, "message %d", field)
		}
		tx.Msg = msg
	}
	return nil
}
