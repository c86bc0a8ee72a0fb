/*
Package x contains the extensions of the escrow ledger.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in package app and std to construct the
application. This package holds what all of them share: the Authenticator
abstraction that lets handlers ask who signed a transaction without
depending on the signature scheme.
*/
package x
