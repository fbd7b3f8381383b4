package ledger

import "context"

// Authenticator extracts authentication info from the context. Handlers get
// one injected so the authentication scheme can be swapped.
type Authenticator interface {
	// GetAddresses returns every authenticated address.
	GetAddresses(context.Context) []Address
	// HasAddress checks if addr is authenticated.
	HasAddress(context.Context, Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines the addresses of all Authenticators.
func (m MultiAuth) GetAddresses(ctx context.Context) []Address {
	var res []Address
	for _, impl := range m.impls {
		res = append(res, impl.GetAddresses(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator authenticates addr.
func (m MultiAuth) HasAddress(ctx context.Context, addr Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated address, if any.
func MainSigner(ctx context.Context, auth Authenticator) Address {
	addrs := auth.GetAddresses(ctx)
	if len(addrs) == 0 {
		return nil
	}
	return addrs[0]
}
