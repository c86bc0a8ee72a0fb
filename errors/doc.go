/*
Package errors implements the error handling used by every ledger extension.

Each failure condition is represented by a root error created with Register.
A root error carries a unique numeric code that is exposed to clients,
while the description is free to change. Code paths wrap root errors with
additional context:

	if !h.auth.HasAddress(ctx, maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}

Callers test for a kind of failure using the Is method, which unwraps any
number of layers:

	if errors.ErrNotFound.Is(err) {
		// the escrow was already resolved
	}

Wrapping attaches a stack trace once, at the innermost frame, using
github.com/pkg/errors. Print an error with %+v to see it.
*/
package errors
