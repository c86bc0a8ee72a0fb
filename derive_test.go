package weave_test

import (
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress(t *testing.T) {
	alice := weave.NewCondition("sigs", "ed25519", []byte("alice")).Address()
	bob := weave.NewCondition("sigs", "ed25519", []byte("bob")).Address()

	a1, err := weave.DeriveAddress("escrow", alice, []byte{1})
	require.NoError(t, err)
	assert.NoError(t, a1.Validate())

	again, err := weave.DeriveAddress("escrow", alice, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, a1, again, "derivation must be deterministic")

	distinct := map[string][]weave.Address{
		"nonce":     {a1, weave.MustDeriveAddress("escrow", alice, []byte{2})},
		"owner":     {a1, weave.MustDeriveAddress("escrow", bob, []byte{1})},
		"namespace": {a1, weave.MustDeriveAddress("vault", alice, []byte{1})},
		"not a key": {alice, weave.MustDeriveAddress("sigs", alice, nil)},
	}
	for name, pair := range distinct {
		assert.False(t, pair[0].Equals(pair[1]), name)
	}
}

func TestDeriveAddressErrors(t *testing.T) {
	alice := weave.NewCondition("sigs", "ed25519", []byte("alice")).Address()

	cases := map[string]struct {
		namespace string
		owner     weave.Address
	}{
		"namespace too short":   {namespace: "ab", owner: alice},
		"namespace bad chars":   {namespace: "es/crow", owner: alice},
		"missing owner":         {namespace: "escrow", owner: nil},
		"owner of wrong length": {namespace: "escrow", owner: weave.Address("short")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := weave.DeriveAddress(tc.namespace, tc.owner, []byte{1})
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
			assert.Panics(t, func() { weave.MustDeriveAddress(tc.namespace, tc.owner, nil) })
		})
	}
}
