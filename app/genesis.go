package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// Genesis is the subset of the tendermint genesis file read by the
// application.
type Genesis struct {
	ChainID  string               `json:"chain_id"`
	AppState compensation.Options `json:"app_state"`
}

// LoadGenesis reads the genesis file at given path.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	return &gen, nil
}
