package compensation

import (
	"fmt"

	"github.com/iov-one/compensation/errors"
)

// KeyQueryMod is the only supported query mod. The query data is the exact
// key of the requested value.
const KeyQueryMod = ""

// QueryHandler answers an ABCI query against a read only view of the
// committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryHandlerFunc allows a function to be used as a QueryHandler
type QueryHandlerFunc func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)

func (f QueryHandlerFunc) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return f(db, mod, data)
}

// CheckQueryMod returns ErrInput for any mod other than KeyQueryMod.
func CheckQueryMod(mod string) error {
	if mod != KeyQueryMod {
		return errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	return nil
}

// KeyQuery returns a QueryHandler that only accepts KeyQueryMod and passes
// the query data to fn as a key.
func KeyQuery(fn func(db ReadOnlyKVStore, key []byte) ([]Model, error)) QueryHandler {
	return QueryHandlerFunc(func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
		if err := CheckQueryMod(mod); err != nil {
			return nil, err
		}
		return fn(db, data)
	})
}

// QueryRegister adds the query handlers of an extension to the router.
type QueryRegister func(QueryRouter)

// QueryRouter maps exact paths to query handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register panics if the path is already taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
