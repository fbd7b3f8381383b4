package ledgertest

import (
	"crypto/sha256"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

// NewKey returns a random signing key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a random key.
func NewAddress() ledger.Address {
	return NewKey().Address()
}

// SeededKey returns the same key for the same name.
func SeededKey(name string) *crypto.PrivateKey {
	seed := sha256.Sum256([]byte(name))
	return crypto.PrivKeyEd25519FromSeed(seed[:])
}

// ParseAddress parses a human readable address or fails the test.
func ParseAddress(t testing.TB, encoded string) ledger.Address {
	t.Helper()
	addr, err := ledger.ParseAddress(encoded)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encoded, err)
	}
	return addr
}
