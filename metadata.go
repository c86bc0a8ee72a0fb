package weave

import (
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/errors"
)

// Metadata is embedded in every model and message. Schema versions the
// serialized layout so that readers can detect data they do not understand.
type Metadata struct {
	Schema uint32
}

// Validate returns an error if the metadata is not usable.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

// Marshal serializes the metadata using protobuf wire format.
func (m *Metadata) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	enc.Uint64(1, uint64(m.Schema))
	return enc.Result()
}

// Unmarshal loads the metadata from its protobuf representation.
func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var v uint64
			v, err = dec.Uint64(wire)
			m.Schema = uint32(v)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "metadata")
		}
	}
	return nil
}
