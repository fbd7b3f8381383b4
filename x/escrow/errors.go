package escrow

import "github.com/iov-one/ledger/errors"

var (
	// ErrInvalidTaker is returned when the maker tries to take its own
	// offer.
	ErrInvalidTaker = errors.Register(6000, "invalid taker: taker cannot be the maker")
	// ErrInvalidMaker is returned when the maker account provided does
	// not match the record.
	ErrInvalidMaker = errors.Register(6001, "invalid maker: maker does not match the escrow")
	// ErrInvalidVault is returned when the vault provided does not match
	// the record.
	ErrInvalidVault = errors.Register(6002, "invalid vault: vault does not match the escrow")
)
