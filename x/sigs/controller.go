package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/errors"
)

// SignCodeV1 prefixes every signed payload. A different prefix keeps
// payout signatures from being replayed as messages of another protocol.
var SignCodeV1 = []byte{0, 0xC0, 0x3E, 1}

// VerifyTxSignatures verifies every signature of tx and increments the
// sequence of each signer. It fails on the first invalid signature, which
// makes the whole transaction invalid.
func VerifyTxSignatures(db compensation.KVStore, tx SignedTx, chainID string) ([]compensation.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]compensation.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature over payload and consumes the
// sequence it was made with. Unknown keys are registered with sequence 0.
func VerifySignature(db compensation.KVStore, sig *StdSignature, payload []byte, chainID string) (compensation.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	b := NewBucket()
	user, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed:
//
//	SignCodeV1 | len(chainID) uint8 | chainID | sequence uint64 BE | payload
//
// Binding the chain id and the sequence makes a signed register or
// distribute transaction valid on one chain, exactly once.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !compensation.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	buf := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(payload))
	buf = append(buf, SignCodeV1...)
	buf = append(buf, uint8(len(chainID)))
	buf = append(buf, chainID...)
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))
	buf = append(buf, seqBytes[:]...)
	buf = append(buf, payload...)

	digest := sha512.Sum512(buf)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx for the given chain and sequence. The caller attaches the
// returned signature to the transaction.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the next signature of addr must use. It
// is 0 for an address that never signed.
func NextSequence(db compensation.ReadOnlyKVStore, addr compensation.Address) (int64, error) {
	user, err := NewBucket().GetUser(db, addr)
	switch {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
