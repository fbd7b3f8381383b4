/*
Package errors provides the error values used across the ledger.

Every failure an operation can report is classified by one of the root errors
registered here (or by an extension through Register). Root errors carry a
numeric code that is surfaced to clients as the structured failure code of a
transaction result.

Create runtime errors by wrapping a root error at the point of failure:

	return errors.Wrapf(errors.ErrNotFound, "escrow %s", addr)

Wrapping attaches a stack trace once, at the innermost wrap. Test the class of
an error with the Is method of the root error:

	if errors.ErrNotFound.Is(err) { ... }

Format with %+v to print the stack trace.
*/
package errors
