package compensation

import (
	"encoding/json"

	"github.com/iov-one/compensation/errors"
)

// Handler processes the messages routed to it, for example
// "payout/register_users" or "payout/distribute".
//
// Check validates a transaction and returns its cost without the caller
// keeping any state change. Deliver executes it. Both return an error
// instead of a partial result, and the caller discards every write of a
// failed call.
type Handler interface {
	Checker
	Deliverer
}

// Checker is the Check half of Handler. Decorators receive the next step
// as a Checker, so they cannot call Deliver by mistake.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is the Deliver half of Handler.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a Handler. Authentication, logging, panic recovery
// and savepoints are decorators shared by all messages.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state. Every extension reads its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the value under key into obj. A missing key leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs the initializers in order and stops at the first
// failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, ini := range all {
		if err := ini.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
