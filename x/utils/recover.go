package utils

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// Recovery turns a panic of any decorator or handler further down the stack
// into an ErrPanic result, so that a single malformed payout message cannot
// halt the node. Recovered panics are logged with the path of the message.
type Recovery struct{}

var _ compensation.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Checker) (_ *compensation.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (_ *compensation.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

func logPanic(ctx compensation.Context, tx compensation.Tx, err *error) {
	if *err == nil || !errors.ErrPanic.Is(*err) {
		return
	}
	path := "unknown"
	if msg, e := tx.GetMsg(); e == nil && msg != nil {
		path = msg.Path()
	}
	compensation.GetLogger(ctx).Error("Recovered from panic", "path", path, "err", *err)
}
