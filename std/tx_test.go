package std

import (
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxSerialization(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	tx := &Tx{
		Msg: &escrow.TakeMsg{
			Metadata:       &weave.Metadata{Schema: 1},
			Escrow:         weavetest.NewAddress(),
			AssetOffered:   "IOV",
			AssetRequested: "ETH",
		},
	}
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(key, tx, "std-test-chain", 3)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	// Signatures are not part of the signed bytes.
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signBytes)

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)

	var take escrow.TakeMsg
	require.NoError(t, weave.LoadMsg(decoded, &take))
	assert.Equal(t, "escrow/take", weave.GetPath(decoded))
}

func TestTxDecodeErrors(t *testing.T) {
	one, err := (&Tx{Msg: &escrow.RefundMsg{Escrow: weavetest.NewAddress()}}).Marshal()
	require.NoError(t, err)

	_, err = TxDecoder(append(one, one...))
	assert.True(t, errors.ErrInput.Is(err))

	_, err = TxDecoder([]byte{0xff})
	assert.Error(t, err)

	// Unknown fields are ignored.
	enc := codec.NewEncoder()
	enc.String(15, "future")
	raw, err := enc.Result()
	require.NoError(t, err)
	tx, err := TxDecoder(raw)
	require.NoError(t, err)
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrState.Is(err))
}

func TestTxUnsupportedMessage(t *testing.T) {
	_, err := (&Tx{Msg: &weavetest.Msg{RoutePath: "test/unknown"}}).Marshal()
	assert.True(t, errors.ErrType.Is(err))
}
