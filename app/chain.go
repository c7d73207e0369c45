package app

import (
	"reflect"

	"github.com/iov-one/compensation"
)

// Decorators is an ordered list of decorators waiting for the final
// handler. The first decorator is the outermost one.
//
// The payout node runs
//
//	app.ChainDecorators(
//	  utils.NewLogging(),
//	  utils.NewRecovery(),
//	  utils.NewActionTagger(),
//	  utils.NewSavepoint().OnCheck(),
//	  sigs.NewDecorator(),
//	  utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []compensation.Decorator
}

// ChainDecorators starts a list. Nil decorators, including typed nil
// pointers, are dropped so that optional decorators can be passed as is.
func ChainDecorators(chain ...compensation.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy with the decorators appended.
func (d Decorators) Chain(chain ...compensation.Decorator) Decorators {
	next := make([]compensation.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNil(dec compensation.Decorator) bool {
	if dec == nil {
		return true
	}
	v := reflect.ValueOf(dec)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler that runs every decorator in order and
// then h.
func (d Decorators) WithHandler(h compensation.Handler) compensation.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link binds a decorator to the rest of the chain.
type link struct {
	dec  compensation.Decorator
	next compensation.Handler
}

func (l link) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
