package comptest

import "github.com/iov-one/compensation"

// calls counts Check and Deliver invocations of a mock.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Decorator passes every call to the next handler unless CheckErr or
// DeliverErr is set. Calls are counted even when they fail.
type Decorator struct {
	calls
	CheckErr   error
	DeliverErr error
}

var _ compensation.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Checker) (*compensation.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (*compensation.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate wraps h with d, so a single decorator can be tested without
// building a chain.
func Decorate(h compensation.Handler, d compensation.Decorator) compensation.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next compensation.Handler
	dec  compensation.Decorator
}

func (d decorated) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
