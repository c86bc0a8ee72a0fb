package escrow

import (
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowAddress(t *testing.T) {
	maker := weavetest.NewAddress()

	a, err := EscrowAddress(maker, 1)
	require.NoError(t, err)
	b, err := EscrowAddress(maker, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b, "derivation must be deterministic")

	// Seed is encoded as little endian 8 bytes.
	want := weave.MustDeriveAddress("escrow", maker, []byte{1, 0, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, want, a)

	other, err := EscrowAddress(maker, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	otherMaker, err := EscrowAddress(weavetest.NewAddress(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, otherMaker)

	_, err = EscrowAddress(weave.Address("short"), 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVaultAddress(t *testing.T) {
	escrow, err := EscrowAddress(weavetest.NewAddress(), 7)
	require.NoError(t, err)

	iov, err := VaultAddress(escrow, "IOV")
	require.NoError(t, err)
	eth, err := VaultAddress(escrow, "ETH")
	require.NoError(t, err)
	assert.NotEqual(t, iov, eth)
	assert.NotEqual(t, escrow, iov)

	_, err = VaultAddress(escrow, "")
	assert.True(t, errors.ErrCurrency.Is(err))
}

func TestFindAuthority(t *testing.T) {
	escrow, err := EscrowAddress(weavetest.NewAddress(), 7)
	require.NoError(t, err)
	vault, err := VaultAddress(escrow, "IOV")
	require.NoError(t, err)

	nonce, authority, err := FindAuthority(escrow, vault)
	require.NoError(t, err)
	assert.EqualValues(t, 255, nonce)
	assert.NotEqual(t, escrow, authority)
	assert.NotEqual(t, vault, authority)

	again, err := AuthorityAddress(escrow, nonce)
	require.NoError(t, err)
	assert.Equal(t, authority, again)
}
