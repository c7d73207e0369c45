package token

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

const optKey = "token"

// GenesisAccount is used to parse the json from genesis file
// use compensation.Address, so address in hex, not base64
type GenesisAccount struct {
	Address compensation.Address `json:"address"`
	Amount  uint64               `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ compensation.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts compensation.Options, kv compensation.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := ctrl.Issue(kv, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
