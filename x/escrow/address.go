package escrow

import (
	"encoding/binary"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

// Namespaces used to derive the escrow addresses.
const (
	escrowNamespace    = "escrow"
	vaultNamespace     = "vault"
	authorityNamespace = "auth"
)

// EscrowAddress returns the address of the escrow created by maker with
// given seed. The seed is encoded as 8 little endian bytes.
func EscrowAddress(maker weave.Address, seed uint64) (weave.Address, error) {
	nonce := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonce, seed)
	return weave.DeriveAddress(escrowNamespace, maker, nonce)
}

// VaultAddress returns the address of the account holding the offered
// asset of given escrow.
func VaultAddress(escrow weave.Address, ticker string) (weave.Address, error) {
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrCurrency, "empty ticker")
	}
	return weave.DeriveAddress(vaultNamespace, escrow, []byte(ticker))
}

// AuthorityAddress returns the address that controls the custodial
// accounts of given escrow.
func AuthorityAddress(escrow weave.Address, nonce uint8) (weave.Address, error) {
	return weave.DeriveAddress(authorityNamespace, escrow, []byte{nonce})
}

// FindAuthority returns the canonical authority nonce of an escrow and the
// authority address it produces. The canonical nonce is the highest value
// whose address is different from both the escrow and the vault address.
func FindAuthority(escrow, vault weave.Address) (uint8, weave.Address, error) {
	for n := 255; n >= 0; n-- {
		addr, err := AuthorityAddress(escrow, uint8(n))
		if err != nil {
			return 0, nil, err
		}
		if !addr.Equals(escrow) && !addr.Equals(vault) {
			return uint8(n), addr, nil
		}
	}
	return 0, nil, errors.Wrap(errors.ErrState, "no authority nonce available")
}
