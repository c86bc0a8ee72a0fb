package weave

import (
	"github.com/iov-one/weave-escrow/errors"
)

// derivedType is the condition type used for all derived addresses. Keeping
// it separate from the types used by signatures makes it impossible to
// produce a derived address that collides with a key address.
const derivedType = "derived"

// DeriveAddress computes an address from a namespace, the identity that owns
// the derived entity and a nonce. The result is deterministic, so any client
// can recompute it offline and no registry is needed to locate the entity.
//
// Owner must be a valid address. Because all addresses share the same length,
// the owner|nonce concatenation is unambiguous and distinct
// (namespace, owner, nonce) tuples never hash the same preimage.
func DeriveAddress(namespace string, owner Address, nonce []byte) (Address, error) {
	if !isConditionPart(namespace) {
		return nil, errors.Wrapf(errors.ErrInput, "namespace %q", namespace)
	}
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	data := make([]byte, 0, len(owner)+len(nonce))
	data = append(data, owner...)
	data = append(data, nonce...)
	return NewCondition(namespace, derivedType, data).Address(), nil
}

// MustDeriveAddress is like DeriveAddress, but panics instead of returning
// errors. Only use when you control the input.
func MustDeriveAddress(namespace string, owner Address, nonce []byte) Address {
	addr, err := DeriveAddress(namespace, owner, nonce)
	if err != nil {
		panic(err)
	}
	return addr
}
