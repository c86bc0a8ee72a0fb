package escrow

import "github.com/iov-one/weave-escrow/errors"

// escrow takes 1010-1020
var (
	// ErrAssetMismatch is returned when the assets named by a message do
	// not match the assets of the escrow.
	ErrAssetMismatch = errors.Register(1010, "asset mismatch")

	// ErrDerivationMismatch is returned when an address does not match the
	// address derived from the escrow data.
	ErrDerivationMismatch = errors.Register(1011, "derivation mismatch")
)
