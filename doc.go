/*
Package ledger defines the common interfaces that tie the ledger's packages
together: key value stores and their cache wraps, transactions and messages,
handlers and decorators, and authentication.

It also implements the account addressing scheme. An Address is 32 bytes. For
a person it is an ed25519 public key. For an account controlled by program
logic it is a program derived address: a digest of seeds and the program id
that is guaranteed not to be a point on the ed25519 curve, so no private key
exists for it. Only the program, presenting the seeds and bump that produced
the address, can authorize actions on its behalf (see Program.Signer).

Handlers receive a context.Context. Values shared between the application,
decorators and handlers are stored in it through accessor pairs:

	WithXYZ(context.Context, T) context.Context
	GetXYZ(context.Context) T
*/
package ledger
