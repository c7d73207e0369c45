package payout

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/gconf"
)

// Initializer fulfils the Initializer interface to load the configuration
// from the genesis file
type Initializer struct{}

var _ compensation.Initializer = Initializer{}

// FromGenesis stores the "conf.payout" section of the genesis file and
// creates an empty ledger.
func (Initializer) FromGenesis(opts compensation.Options, db compensation.KVStore) error {
	if err := gconf.InitConfig(db, opts, confPkg, &Configuration{}); err != nil {
		return err
	}
	l := NewLedger()
	return l.saveState(db, &State{})
}
