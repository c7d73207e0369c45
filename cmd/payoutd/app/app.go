/*
Package app links together all the various components
to construct the payout chain application.
*/
package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/app"
	"github.com/iov-one/compensation/commands/server"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/gconf"
	"github.com/iov-one/compensation/store/bolt"
	"github.com/iov-one/compensation/store/iavl"
	"github.com/iov-one/compensation/x"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/sigs"
	"github.com/iov-one/compensation/x/token"
	"github.com/iov-one/compensation/x/utils"
)

// Name is returned by abci Info.
const Name = "payoutd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router dispatches token transfers and all payout messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	tokens := token.NewController()
	token.RegisterRoutes(r, authFn, tokens)
	payout.RegisterRoutes(r, authFn, tokens)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/wallets", "/payout/*" and "/_c"
func QueryRouter() compensation.QueryRouter {
	r := compensation.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		payout.RegisterQuery,
		gconf.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() compensation.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() compensation.Initializer {
	return compensation.ChainInitializers(
		token.Initializer{},
		payout.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h compensation.Handler, tx compensation.TxDecoder, kv compensation.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore opens the state database of given kind under home. An
// empty home returns an in memory store.
func CommitKVStore(home, kind string) (compensation.CommitKVStore, error) {
	// memory backed case, just for testing
	if home == "" {
		return iavl.NewMemCommitStore(), nil
	}

	dir, err := filepath.Abs(filepath.Join(home, "data"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	switch kind {
	case server.StoreIAVL, "":
		kv, err := iavl.NewCommitStore(dir, "payout")
		if err != nil {
			return nil, err
		}
		return kv, nil
	case server.StoreBolt:
		kv, err := bolt.Open(filepath.Join(dir, "payout.bolt"))
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown store %q", kind)
	}
}
