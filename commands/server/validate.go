package server

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/app"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store"
)

// ValidateGenesis loads the app_state of every genesis file into a
// throw away store, so that a missing payout configuration or an invalid
// operator address is reported before a node is started with it.
func ValidateGenesis(ini compensation.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		gen, err := app.LoadGenesis(path)
		if err != nil {
			return errors.Wrap(err, path)
		}
		if gen.ChainID != "" && !compensation.IsValidChainID(gen.ChainID) {
			return errors.Wrapf(errors.ErrInput, "%s: chain id %q", path, gen.ChainID)
		}
		if err := ini.FromGenesis(gen.AppState, store.MemStore()); err != nil {
			return errors.Wrapf(err, "%s: cannot initialize from genesis", path)
		}
	}
	return nil
}
