/*
Package crypto holds the key types used to authorize transactions. Public
keys are turned into weave conditions, so that handlers never see raw keys,
only the addresses derived from them.
*/
package crypto

import (
	"github.com/iov-one/weave-escrow"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

// Address is a shortcut for the address of the key condition.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}
