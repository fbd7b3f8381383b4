package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// Signer can create signatures for transactions.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) Reset()         { *m = PublicKey{} }
func (m *PublicKey) String() string { return proto.CompactTextString(m) }
func (*PublicKey) ProtoMessage()    {}

// Validate checks the key length.
func (m *PublicKey) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(m.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

// Verify checks that sig was created by this key over message.
func (m *PublicKey) Verify(message, sig []byte) bool {
	if m.Validate() != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(m.Ed25519), message, sig)
}

// Address returns the address controlled by this key.
func (m *PublicKey) Address() ledger.Address {
	return ledger.Address(m.Ed25519).Clone()
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PrivateKey) Reset()         { *m = PrivateKey{} }
func (m *PrivateKey) String() string { return "PrivateKey{...}" }
func (*PrivateKey) ProtoMessage()    {}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a signature of message.
func (m *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(m.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	return ed25519.Sign(ed25519.PrivateKey(m.Ed25519), message), nil
}

// PublicKey returns the corresponding PublicKey.
func (m *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(m.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Address is a shortcut for PublicKey().Address().
func (m *PrivateKey) Address() ledger.Address {
	return m.PublicKey().Address()
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed deterministically generates a private key from a
// 32-byte seed. Use it for deterministic keys in tests.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
