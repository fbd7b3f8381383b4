package escrow

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestDerive(t *testing.T) {
	conf := DefaultConfig()
	assert.Nil(t, conf.Validate())
	maker := ledgertest.NewAddress()
	mint := ledgertest.NewAddress()

	first, err := conf.Derive(maker, mint, 1)
	assert.Nil(t, err)
	again, err := conf.Derive(maker, mint, 1)
	assert.Nil(t, err)
	assert.Equal(t, first, again)

	if ledger.IsOnCurve(first.Escrow) {
		t.Fatal("escrow address must not be a public key")
	}
	want, err := ledger.CreateProgramAddress(append(Seeds(maker, 1), []byte{first.Bump}), conf.Program)
	assert.Nil(t, err)
	assert.Equal(t, want, first.Escrow)

	vault, err := conf.Token.AssociatedAddress(first.Escrow, mint)
	assert.Nil(t, err)
	assert.Equal(t, vault, first.Vault)

	others := map[string]func() (*Addresses, error){
		"other id":    func() (*Addresses, error) { return conf.Derive(maker, mint, 2) },
		"other maker": func() (*Addresses, error) { return conf.Derive(ledgertest.NewAddress(), mint, 1) },
		"other program": func() (*Addresses, error) {
			c := conf
			c.Program = ledger.DefaultProgramID("another")
			return c.Derive(maker, mint, 1)
		},
	}
	for testName, derive := range others {
		t.Run(testName, func(t *testing.T) {
			got, err := derive()
			assert.Nil(t, err)
			if got.Escrow.Equals(first.Escrow) {
				t.Fatal("derived the same escrow address")
			}
		})
	}
}

func TestSeeds(t *testing.T) {
	maker := ledgertest.NewAddress()
	seeds := Seeds(maker, 0x0a0b)
	assert.Equal(t, 3, len(seeds))
	assert.Equal(t, []byte("escrow"), seeds[0])
	assert.Equal(t, []byte(maker), seeds[1])
	assert.Equal(t, []byte{0x0b, 0x0a, 0, 0, 0, 0, 0, 0}, seeds[2])
}

func TestDeriveRequiresAddresses(t *testing.T) {
	conf := DefaultConfig()
	if _, err := conf.Derive(nil, ledgertest.NewAddress(), 1); err == nil {
		t.Fatal("missing maker accepted")
	}
	if _, err := conf.Derive(ledgertest.NewAddress(), ledger.Address{1, 2}, 1); err == nil {
		t.Fatal("short mint accepted")
	}
}
