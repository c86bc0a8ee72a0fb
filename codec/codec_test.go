package codec

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Name  string
	Value uint64
}

func (p *pair) Marshal() ([]byte, error) {
	enc := NewEncoder()
	enc.String(1, p.Name)
	enc.Uint64(2, p.Value)
	return enc.Result()
}

func (p *pair) Unmarshal(raw []byte) error {
	*p = pair{}
	dec := NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			p.Name, err = dec.String(wire)
		case 2:
			p.Value, err = dec.Uint64(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func TestZeroValuesAreNotWritten(t *testing.T) {
	raw, err := (&pair{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEmbeddedMessage(t *testing.T) {
	enc := NewEncoder()
	enc.Message(3, &pair{Name: "escrow", Value: 100})
	enc.Int64(4, -1)
	raw, err := enc.Result()
	require.NoError(t, err)

	dec := NewDecoder(raw)
	field, wire, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, field)
	var got pair
	require.NoError(t, dec.Message(wire, &got))
	assert.Equal(t, pair{Name: "escrow", Value: 100}, got)

	field, wire, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, field)
	n, err := dec.Int64(wire)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)
	assert.False(t, dec.More())
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	buf := proto.NewBuffer(nil)
	require.NoError(t, buf.EncodeVarint(7<<3|proto.WireFixed64))
	require.NoError(t, buf.EncodeFixed64(42))
	require.NoError(t, buf.EncodeVarint(2<<3|proto.WireVarint))
	require.NoError(t, buf.EncodeVarint(9))

	var p pair
	require.NoError(t, p.Unmarshal(buf.Bytes()))
	assert.Equal(t, uint64(9), p.Value)
}

func TestMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated length": {1<<3 | proto.WireBytes, 10, 'a'},
		"wrong wire type":  {2<<3 | proto.WireBytes, 1, 'a'},
		"zero field":       {0, 1},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var p pair
			err := p.Unmarshal(raw)
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}
}
