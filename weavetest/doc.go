/*
Package weavetest provides mocks and helpers for testing extensions: an
authenticator that can be told who signed, mock handlers and decorators that
count their calls, and mock transactions carrying any message.
*/
package weavetest
