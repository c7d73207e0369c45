package utils

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache is
// written only when the call succeeds, so a failed registration or
// distribution leaves no partial state behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ compensation.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that does nothing until
// OnCheck or OnDeliver is called.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Checker) (*compensation.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *compensation.CheckResult
	err := atomically(store, func(db compensation.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (*compensation.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *compensation.DeliverResult
	err := atomically(store, func(db compensation.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically calls fn with a cache wrap of store and writes the cache back
// only if fn succeeds. Stores that cannot be cached are passed through.
func atomically(store compensation.KVStore, fn func(compensation.KVStore) error) error {
	cstore, ok := store.(compensation.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
