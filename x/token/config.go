package token

import "github.com/iov-one/ledger"

// Config identifies the programs owning token state.
type Config struct {
	// TokenProgram owns mints and token accounts.
	TokenProgram ledger.Address `toml:"token_program" json:"token_program"`
	// AssociatedProgram derives associated account addresses.
	AssociatedProgram ledger.Address `toml:"associated_program" json:"associated_program"`
}

// DefaultConfig returns the deterministic program ids.
func DefaultConfig() Config {
	return Config{
		TokenProgram:      ledger.DefaultProgramID("token"),
		AssociatedProgram: ledger.DefaultProgramID("associated_token"),
	}
}

// Validate checks both program ids.
func (c Config) Validate() error {
	if err := c.TokenProgram.Validate(); err != nil {
		return err
	}
	return c.AssociatedProgram.Validate()
}

// AssociatedAddress returns the canonical token account of owner for mint.
func (c Config) AssociatedAddress(owner, mint ledger.Address) (ledger.Address, error) {
	addr, _, err := ledger.FindProgramAddress(
		[][]byte{owner, c.TokenProgram, mint},
		c.AssociatedProgram,
	)
	return addr, err
}
