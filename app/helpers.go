package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query part of abci.Application. Both the application and
// the node client implement it.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore runs queries over the abci.Query interface and decodes the
// returned result sets.
type ABCIStore struct {
	app Querier
}

// NewABCIStore returns a store querying given application.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Query returns all models found under path for given data. A failed
// response is turned back into an error that can be tested with Is.
func (a *ABCIStore) Query(path string, data []byte) ([]compensation.Model, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

// One loads the first model found under path into dest. It returns
// ErrNotFound if the query result is empty.
func (a *ABCIStore) One(path string, data []byte, dest interface{}) error {
	models, err := a.Query(path, data)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, data)
	}
	return errors.Wrap(orm.Unmarshal(models[0].Value, dest), "decode result")
}

func toModels(keys, values []byte) ([]compensation.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
