package crypto

import (
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/errors"
)

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey is an ed25519 private key. It is never part of a transaction.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (p *PublicKey) Marshal() ([]byte, error)  { return marshalKey(p.Ed25519) }
func (p *PublicKey) Unmarshal(raw []byte) error { return unmarshalKey(raw, &p.Ed25519) }

func (p *PrivateKey) Marshal() ([]byte, error)  { return marshalKey(p.Ed25519) }
func (p *PrivateKey) Unmarshal(raw []byte) error { return unmarshalKey(raw, &p.Ed25519) }

func (s *Signature) Marshal() ([]byte, error)  { return marshalKey(s.Ed25519) }
func (s *Signature) Unmarshal(raw []byte) error { return unmarshalKey(raw, &s.Ed25519) }

// All key types share the same layout: the ed25519 variant is field 1, so
// that other algorithms can be added as new fields.
func marshalKey(ed []byte) ([]byte, error) {
	enc := codec.NewEncoder()
	enc.Bytes(1, ed)
	return enc.Result()
}

func unmarshalKey(raw []byte, ed *[]byte) error {
	*ed = nil
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			*ed, err = dec.Bytes(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "key")
		}
	}
	return nil
}
