/*
Package weave defines interfaces used throughout the app, such as: storage,
transactions, handlers and context. It also contains the address primitives:
conditions, addresses and deterministic address derivation.

Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks. Extensions live under x/, storage
implementations under store/ and the application wiring under app/ and std/.
*/
package weave
