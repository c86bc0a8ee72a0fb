package sigs

import (
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
)

// SignedTx represents a transaction that contains signatures, which can be
// verified by the Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all the signers.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the public key that created it
// and the sequence of the signer that it was created for.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	enc.Int64(1, s.Sequence)
	if s.Pubkey != nil {
		enc.Message(2, s.Pubkey)
	}
	if s.Signature != nil {
		enc.Message(4, s.Signature)
	}
	return enc.Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Sequence, err = dec.Int64(wire)
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			err = dec.Message(wire, s.Pubkey)
		case 4:
			s.Signature = &crypto.Signature{}
			err = dec.Message(wire, s.Signature)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "signature")
		}
	}
	return nil
}
