/*
Package sigs authenticates transactions signed by operator and funder keys.

Every signature is checked against the chain id and the next sequence of its
signer. The public key conditions of valid signatures are stored in the
context, where the payout and token handlers read them as permissions.
*/
package sigs

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// signatureVerifyCost is charged per valid signature in check.
const signatureVerifyCost = 500

// RegisterQuery exposes user sequences under "/auth".
func RegisterQuery(qr compensation.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ compensation.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects signed transactions
// without a single signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy that passes transactions with an empty
// signature list to the next handler.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// authenticate returns the context extended with the signers of tx and the
// number of signers. Transactions that cannot carry signatures pass through
// unchanged.
func (d Decorator) authenticate(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (compensation.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, compensation.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}

func (d Decorator) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Checker) (*compensation.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(n * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (*compensation.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}
