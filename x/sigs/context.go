package sigs

import (
	"context"

	"github.com/iov-one/ledger"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, only this package can add signers.
func withSigners(ctx context.Context, signers []ledger.Address) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the verified signers as a ledger.Authenticator.
type Authenticate struct{}

var _ ledger.Authenticator = Authenticate{}

// GetAddresses returns who signed the current Context. May be empty.
func (a Authenticate) GetAddresses(ctx context.Context) []ledger.Address {
	val, _ := ctx.Value(contextKeySigners).([]ledger.Address)
	return val
}

// HasAddress returns true if addr signed the current Context.
func (a Authenticate) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
