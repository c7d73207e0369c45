package utils

import (
	"time"

	"github.com/iov-one/compensation"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one log entry per processed transaction, with the message
// path and the processing time. Failures are logged at error level, checks at
// debug level and deliveries at info level together with the number of
// emitted tags.
type Logging struct{}

var _ compensation.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Checker) (*compensation.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("check failed", "err", err)
		return res, err
	}
	logger.Debug(res.Log, "gas", res.GasAllocated)
	return res, nil
}

func (Logging) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (*compensation.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("deliver failed", "err", err)
		return res, err
	}
	// The message can be empty, the entry is still written for its fields.
	logger.Info(res.Log, "tags", len(res.Tags))
	return res, nil
}

func txLogger(ctx compensation.Context, tx compensation.Tx, start time.Time) log.Logger {
	return compensation.GetLogger(ctx).With(
		"path", compensation.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
}
