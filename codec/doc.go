/*
Package codec implements the protobuf wire format used to persist models and
to serialize messages and transactions.

Every persistent type implements weave.Persistent by hand, writing its fields
with an Encoder and reading them back with a Decoder. The resulting bytes are
compatible with a protobuf message declaring the same field numbers, so
clients can use generated protobuf code to talk to the ledger.

Zero values are not written, following proto3 semantics. Unknown fields are
skipped when decoding.
*/
package codec
