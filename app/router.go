package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]compensation.Handler
}

var _ compensation.Registry = (*Router)(nil)
var _ compensation.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]compensation.Handler),
	}
}

// Handle adds a new Handler for the given path. It panics if a handler for
// given path is already registered or the path is malformed.
func (r *Router) Handle(path string, h compensation.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered handler for the path of the transaction
// message.
func (r *Router) handler(tx compensation.Tx) (compensation.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrState, "nil message")
	}
	path := msg.Path()
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	}
	return h, nil
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}
