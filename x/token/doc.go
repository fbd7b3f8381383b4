/*
Package token implements fungible assets.

A Mint defines an asset type. Balances of an asset are kept in token
accounts, each bound to one mint and one owner. Only the owner may move
tokens out of an account or close it, and the owner may be a program
derived address, in which case the program authorizes with a
ledger.ProgramSigner.

Every owner has one canonical account per mint, the associated account,
whose address is derived from the owner, the token program and the mint.
*/
package token
