package ledgertest

import (
	"context"
	"fmt"

	"github.com/iov-one/ledger"
)

// Auth is a mock Authenticator that authenticates every referenced
// address. Signer and Signers are both considered.
type Auth struct {
	Signer  ledger.Address
	Signers []ledger.Address
}

var _ ledger.Authenticator = (*Auth)(nil)

func (a *Auth) GetAddresses(context.Context) []ledger.Address {
	if a.Signer != nil {
		return append([]ledger.Address{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock Authenticator that reads addresses from the context.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context.
	Key string
}

var _ ledger.Authenticator = (*CtxAuth)(nil)

func (a *CtxAuth) SetAddresses(ctx context.Context, addrs ...ledger.Address) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), addrs)
}

func (a *CtxAuth) GetAddresses(ctx context.Context) []ledger.Address {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	addrs, ok := val.([]ledger.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []ledger.Address got %T", val))
	}
	return addrs
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

type ctxAuthKey string
