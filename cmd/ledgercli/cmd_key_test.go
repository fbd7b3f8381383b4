package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeygen(t *testing.T) {
	keyPath := filepath.Join(tempDir(t), "key")

	var output bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &output, []string{"-key", keyPath}))

	key, err := crypto.LoadKeyFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, key.Address().String(), strings.TrimSpace(output.String()))

	// Existing keys are never overwritten.
	err = cmdKeygen(nil, &output, []string{"-key", keyPath})
	require.Error(t, err)
	again, err := crypto.LoadKeyFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), again.Address())
}

func TestKeyaddr(t *testing.T) {
	keyPath := filepath.Join(tempDir(t), "key")
	key := crypto.GenPrivKeyEd25519()
	require.NoError(t, crypto.SaveKeyFile(keyPath, key))

	var output bytes.Buffer
	require.NoError(t, cmdKeyaddr(nil, &output, []string{"-key", keyPath}))
	assert.Equal(t, key.Address().String()+"\n", output.String())

	err := cmdKeyaddr(nil, &output, []string{"-key", keyPath + ".missing"})
	require.Error(t, err)
}

func TestSaveKeyFileDuplicate(t *testing.T) {
	keyPath := filepath.Join(tempDir(t), "key")
	require.NoError(t, crypto.SaveKeyFile(keyPath, crypto.GenPrivKeyEd25519()))
	err := crypto.SaveKeyFile(keyPath, crypto.GenPrivKeyEd25519())
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)
}
