package sigs

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// StdSignature is a signature of a single signer attached to a transaction.
type StdSignature struct {
	Pubkey    crypto.PublicKey `json:"pubkey"`
	Signature []byte           `json:"signature"`
	// Sequence is the nonce of the signer and must match the stored
	// UserData sequence.
	Sequence int64 `json:"sequence"`
}

// Validate ensures that the signature is well formed.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	var errs error
	if s.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	errs = errors.AppendField(errs, "Pubkey", s.Pubkey.Validate())
	if len(s.Signature) == 0 {
		errs = errors.Append(errs, errors.Field("Signature", errors.ErrEmpty, "required"))
	}
	return errs
}

// UserData stores the public key and the nonce of a signer. It is created
// when the first signed transaction of a key is processed.
type UserData struct {
	Pubkey   crypto.PublicKey `json:"pubkey"`
	Sequence int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce value supported by the clients is
	//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// SetPubkey will try to set the Pubkey or panic on an illegal operation.
// It is illegal to reset an already set key.
func (u *UserData) SetPubkey(pubkey crypto.PublicKey) {
	if u.Pubkey != nil {
		panic("Cannot change pubkey for a user")
	}
	u.Pubkey = pubkey
}

// Bucket stores UserData by the address of the public key.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{orm.NewBucket(BucketName)}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db compensation.KVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// GetUser returns the signer state of given address. A signer that never
// signed a transaction has no state and ErrNotFound is returned.
func (b Bucket) GetUser(db compensation.ReadOnlyKVStore, addr compensation.Address) (*UserData, error) {
	var user UserData
	if err := b.One(db, addr, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Save stores the user under the address of its public key.
func (b Bucket) Save(db compensation.KVStore, user *UserData) error {
	if user.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "missing public key")
	}
	return b.Put(db, user.Pubkey.Address(), user)
}
