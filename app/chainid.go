package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// chainIDKey lives under the "_app:" prefix, which no extension bucket uses.
var chainIDKey = []byte("_app:chainID")

// loadChainID returns an empty string before genesis.
func loadChainID(kv compensation.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID writes the chain id once. Signatures are bound to it, so it
// cannot change after genesis.
func saveChainID(kv compensation.KVStore, chainID string) error {
	if !compensation.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
