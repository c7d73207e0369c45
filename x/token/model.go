package token

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

// BucketName is where we store the balances
const BucketName = "wallet"

// Wallet holds the token balance of a single address.
type Wallet struct {
	Balance uint64 `json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate always passes, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount uint64) error {
	sum := w.Balance + amount
	if sum < w.Balance {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Balance = sum
	return nil
}

// Subtract decreases the balance, failing if it is lower than amount.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "balance %d, need %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{orm.NewBucket(BucketName)}
}

// GetOrCreate returns the wallet of given address, or an empty one if the
// address never held tokens.
func (b Bucket) GetOrCreate(db compensation.ReadOnlyKVStore, addr compensation.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under given address.
func (b Bucket) Save(db compensation.KVStore, addr compensation.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	return b.Put(db, addr, w)
}
