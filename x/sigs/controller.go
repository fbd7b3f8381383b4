package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// VerifyTxSignatures checks all the signatures on the tx and bumps the
// sequence of every signer. It returns the signer addresses.
func VerifyTxSignatures(db ledger.KVStore, tx SignedTx, chainID string) ([]ledger.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()

	signers := make([]ledger.Address, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		for _, s := range signers {
			if s.Equals(signer) {
				return nil, errors.Wrapf(errors.ErrDuplicate, "signer %s", signer)
			}
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signBytes and increments
// the signer sequence in the store.
func VerifySignature(db ledger.KVStore, sig *StdSignature, signBytes []byte, chainID string) (ledger.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	if err := sig.Pubkey.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	addr := sig.Pubkey.Address()

	bucket := NewBucket()
	var user UserData
	switch err := bucket.One(db, addr, &user); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		user = UserData{Pubkey: sig.Pubkey}
	default:
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Put(db, addr, &user); err != nil {
		return nil, err
	}
	return addr, nil
}

// NextSequence returns the sequence the next signature of addr must carry.
func NextSequence(db ledger.ReadOnlyKVStore, addr ledger.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, addr, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
