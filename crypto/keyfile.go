package crypto

import (
	"io/ioutil"
	"os"

	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// SaveKeyFile writes the raw private key into a new file. It fails if the
// file already exists, an existing key is never overwritten.
func SaveKeyFile(path string, key *PrivateKey) error {
	if len(key.Ed25519) != ed25519.PrivateKeySize {
		return errors.Wrap(errors.ErrInput, "invalid private key")
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(errors.ErrDuplicate, "private key file %q", path)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if _, err := fd.Write(key.Ed25519); err != nil {
		fd.Close()
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return fd.Close()
}

// LoadKeyFile reads a private key written by SaveKeyFile.
func LoadKeyFile(path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &PrivateKey{Ed25519: raw}, nil
}
