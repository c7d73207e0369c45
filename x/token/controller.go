package token

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// Controller is the functionality needed by other extensions to move
// tokens.
type Controller interface {
	// Balance returns the number of tokens held by given address. An
	// address that never held tokens has a zero balance.
	Balance(db compensation.ReadOnlyKVStore, holder compensation.Address) (uint64, error)

	// Transfer moves amount tokens from src to dest. It fails with
	// ErrInsufficientBalance if src does not hold enough tokens.
	Transfer(db compensation.KVStore, src, dest compensation.Address, amount uint64) error

	// Issue creates amount tokens on dest.
	Issue(db compensation.KVStore, dest compensation.Address, amount uint64) error
}

// BaseController is the default Controller, storing wallets in a Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the number of tokens held by given address.
func (c BaseController) Balance(db compensation.ReadOnlyKVStore, holder compensation.Address) (uint64, error) {
	w, err := c.bucket.GetOrCreate(db, holder)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Transfer moves the given amount from src to dest.
// If src doesn't have sufficient tokens, it fails.
func (c BaseController) Transfer(db compensation.KVStore, src, dest compensation.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non positive amount")
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}

	// Load after saving the sender so that a transfer to self is a no-op.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// Issue attempts to add the given amount of tokens to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) Issue(db compensation.KVStore, dest compensation.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}
