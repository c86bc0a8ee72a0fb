package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/iov-one/weave-escrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	require.NoError(t, err)

	hrp, payload, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "tiov", hrp)
	assert.Equal(t, want, payload)

	raw, err := Encode(hrp, payload)
	require.NoError(t, err)
	assert.Equal(t, enc, string(raw))
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"bad checksum": "tiov1w3jhxapdwpshjmr0v9jqymqq4z",
		"no separator": "w3jhxapdwpshjmr0v9jqymqq4y",
		"empty":        "",
	}
	for name, enc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(enc)
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}
}

func TestEncodeRequiresHRP(t *testing.T) {
	_, err := Encode("", []byte("payload"))
	assert.True(t, errors.ErrEmpty.Is(err))
}
