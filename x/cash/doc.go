/*
Package cash defines a simple implementation of sending coins between
wallets.

There is no logic in the coins (tokens), except that the balance of any coin
may not go below zero. Thus, this implementation is referred to as cash.

A wallet can be bound to an authority address. Such custodial wallet cannot
be spent by a signature, only by the extension that owns the authority and
calls Withdraw. This is how other extensions hold funds in custody.
*/
package cash
