package ledger

import (
	"context"
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation,
	// including the bump.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var pdaMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress derives the address for the given seeds and program.
// It fails when the digest is a valid ed25519 point: such an address could
// have a private key and is not usable as a program authority.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if err := validateSeeds(seeds, program); err != nil {
		return nil, err
	}
	addr := programAddress(seeds, program)
	if IsOnCurve(addr) {
		return nil, errors.Wrap(errors.ErrInput, "derived address is on curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the highest bump that, appended as the last
// seed, produces a valid program address.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{0}
	if err := validateSeeds(withBump, program); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		if addr := programAddress(withBump, program); !IsOnCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no viable bump")
}

func validateSeeds(seeds [][]byte, program Address) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "%d seeds", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long", i)
		}
	}
	if err := program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	return nil
}

func programAddress(seeds [][]byte, program Address) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program)
	h.Write(pdaMarker)
	return h.Sum(nil)
}

// IsOnCurve reports whether b is the canonical encoding of an ed25519 point.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// DefaultProgramID returns the deterministic id used for a program when no
// deployment address is configured.
func DefaultProgramID(name string) Address {
	h := sha256.Sum256([]byte("program:" + name))
	return h[:]
}

// Program is a deployed piece of logic identified by its address. It is the
// only source of ProgramSigner values for the addresses it derives.
type Program struct {
	id Address
}

// NewProgram returns a program with the given id.
func NewProgram(id Address) Program {
	return Program{id: id.Clone()}
}

// ID returns the program address.
func (p Program) ID() Address {
	return p.id
}

// Derive finds the address and bump for seeds.
func (p Program) Derive(seeds ...[]byte) (Address, uint8, error) {
	return FindProgramAddress(seeds, p.id)
}

// Signer returns the capability to act as the address derived from seeds and
// bump. The derivation is checked again, so a wrong bump or seed never
// yields a signer.
func (p Program) Signer(bump uint8, seeds ...[]byte) (*ProgramSigner, error) {
	all := make([][]byte, 0, len(seeds)+1)
	all = append(all, seeds...)
	all = append(all, []byte{bump})
	addr, err := CreateProgramAddress(all, p.id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "cannot derive program signer")
	}
	return &ProgramSigner{program: p.id, addr: addr}, nil
}

// ProgramSigner authenticates exactly one program derived address. The zero
// value authenticates nothing.
type ProgramSigner struct {
	program Address
	addr    Address
}

var _ Authenticator = (*ProgramSigner)(nil)

// Address returns the address this signer acts for.
func (s *ProgramSigner) Address() Address {
	if s == nil {
		return nil
	}
	return s.addr
}

// Program returns the id of the program that issued this signer.
func (s *ProgramSigner) Program() Address {
	if s == nil {
		return nil
	}
	return s.program
}

// GetAddresses returns the derived address.
func (s *ProgramSigner) GetAddresses(context.Context) []Address {
	if s == nil || s.addr == nil {
		return nil
	}
	return []Address{s.addr}
}

// HasAddress returns true for the derived address only.
func (s *ProgramSigner) HasAddress(_ context.Context, addr Address) bool {
	return s != nil && s.addr != nil && s.addr.Equals(addr)
}
