/*
Package escrow implements a two party atomic swap.

A maker opens an escrow offering an amount of one asset in exchange for an
amount of another asset. The offered amount is locked in a vault account.
Any taker can fulfill the offer by paying the requested amount to the maker
and receiving the vault content. Until then the maker can refund the escrow.
Exactly one of take or refund can succeed, after which the escrow and its
vault no longer exist.

All addresses are derived, so anyone can compute them offline:

	escrow    = derive("escrow", maker, le64(seed))
	vault     = derive("vault", escrow, ticker)
	authority = derive("auth", escrow, nonce)

The authority is the only address allowed to spend the vault and the custody
deposit held at the escrow address. Nobody owns its key, so the coins can be
moved only by the handlers of this package.
*/
package escrow
