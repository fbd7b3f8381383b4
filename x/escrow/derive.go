package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// seedPrefix is the constant first seed of every record address.
const seedPrefix = "escrow"

// Config holds the program ids the escrow depends on.
type Config struct {
	Program ledger.Address `toml:"program" json:"program"`
	Token   token.Config   `toml:"token" json:"token"`
}

// DefaultConfig uses the default program ids.
func DefaultConfig() Config {
	return Config{
		Program: ledger.DefaultProgramID("escrow"),
		Token:   token.DefaultConfig(),
	}
}

// Validate checks all program ids are set.
func (c Config) Validate() error {
	if err := c.Program.Validate(); err != nil {
		return errors.Wrap(err, "escrow program")
	}
	return c.Token.Validate()
}

// Seeds returns the derivation seeds of the record of maker with id. The
// bump is not included.
func Seeds(maker ledger.Address, id uint64) [][]byte {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], id)
	return [][]byte{[]byte(seedPrefix), maker, le[:]}
}

// Addresses are the derived accounts of a single offer.
type Addresses struct {
	Escrow ledger.Address `json:"escrow"`
	Bump   uint8          `json:"bump"`
	Vault  ledger.Address `json:"vault"`
}

// Derive computes the record and vault addresses of the offer of maker
// with id, locking mintA. The result depends only on its inputs and the
// configured program ids.
func (c Config) Derive(maker, mintA ledger.Address, id uint64) (*Addresses, error) {
	if err := maker.Validate(); err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	if err := mintA.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	addr, bump, err := ledger.NewProgram(c.Program).Derive(Seeds(maker, id)...)
	if err != nil {
		return nil, errors.Wrap(err, "escrow address")
	}
	vault, err := c.Token.AssociatedAddress(addr, mintA)
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	return &Addresses{Escrow: addr, Bump: bump, Vault: vault}, nil
}
