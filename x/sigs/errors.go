package sigs

import "github.com/iov-one/ledger/errors"

// ErrInvalidSequence is returned when a signature does not carry the next
// expected sequence of its signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
