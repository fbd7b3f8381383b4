/*
Package app glues handlers, decorators and a committing store into a
running ledger.

Application is the host: every transaction and query goes through a single
mutex, so operations never interleave. A delivered transaction runs on a
cache wrap of the working state. When the handler stack succeeds the cache
is written and the store is committed as a new version, when it fails the
cache is dropped and the state is left as it was.

Router dispatches on the message path and also knows how to decode each
message, so the Tx envelope can be parsed without a central registry of
generated types.
*/
package app
