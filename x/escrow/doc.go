/*
Package escrow implements a two party atomic swap.

A maker locks an amount of one token (mint A) in a vault and names the
amount of another token (mint B) it wants in exchange. Any other party,
the taker, completes the swap by paying the wanted amount to the maker and
receiving the vault content in the same transaction. Until then the maker
may refund the offer and recover the locked tokens.

The offer record lives at a program derived address computed from the
maker and a maker chosen id:

	escrow = FindProgramAddress(["escrow", maker, le64(id)], escrow program)
	vault  = associated token account of (escrow, mint A)

Nobody holds a key for the escrow address. Only this package, holding the
program id and the record bump, can produce the ledger.ProgramSigner that
moves the vault content.

Every operation checks all its preconditions before any state is touched
and runs inside a savepoint, so it either applies in full or leaves no
trace. Refund and Take both delete the record and close the vault, so at
most one of them ever succeeds for a given offer.
*/
package escrow
