package crypto

import (
	"bytes"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	key := GenPrivKeyEd25519()
	pub := key.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("swap 10 for 20")
	sig, err := key.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("swap 10 for 21"), sig))
	assert.False(t, GenPrivKeyEd25519().PublicKey().Verify(msg, sig))
	assert.Equal(t, []byte(pub.Ed25519), []byte(key.Address()))
}

func TestSeededKeysAreDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.Address(), b.Address())
}

func TestPublicKeySerialization(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	raw, err := proto.Marshal(pub)
	require.NoError(t, err)

	var got PublicKey
	require.NoError(t, proto.Unmarshal(raw, &got))
	assert.Equal(t, pub.Ed25519, got.Ed25519)

	assert.Error(t, (&PublicKey{Ed25519: []byte{1, 2}}).Validate())
	var missing *PublicKey
	assert.Error(t, missing.Validate())
}
