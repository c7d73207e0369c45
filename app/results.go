package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	amino "github.com/tendermint/go-amino"
)

var resultsCdc = amino.NewCodec()

// ResultSet is one column of a query response. The Key and the Value of an
// abci.ResponseQuery each hold a ResultSet, with one entry per model.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	raw, err := resultsCdc.MarshalBinaryBare(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	if err := resultsCdc.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// ResultsFromKeys returns the key column of models.
func ResultsFromKeys(models []compensation.Model) *ResultSet {
	return column(models, func(m compensation.Model) []byte { return m.Key })
}

// ResultsFromValues returns the value column of models.
func ResultsFromValues(models []compensation.Model) *ResultSet {
	return column(models, func(m compensation.Model) []byte { return m.Value })
}

func column(models []compensation.Model, pick func(compensation.Model) []byte) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = pick(m)
	}
	return &ResultSet{Results: res}
}

// JoinResults zips a key and a value column back into models.
func JoinResults(keys, values *ResultSet) ([]compensation.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys, %d values", len(keys.Results), len(values.Results))
	}
	models := make([]compensation.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = compensation.Pair(k, values.Results[i])
	}
	return models, nil
}
