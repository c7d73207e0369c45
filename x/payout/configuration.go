package payout

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/gconf"
)

const confPkg = "payout"

// Configuration of the payout extension, created at genesis.
type Configuration struct {
	// Operator is the only address allowed to register beneficiaries and
	// to distribute.
	Operator compensation.Address `json:"operator"`
	// RegisterCost is the gas allocated per registered beneficiary.
	RegisterCost int64 `json:"register_cost"`
	// StepCost is the gas allocated per processed ledger position.
	StepCost int64 `json:"step_cost"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Operator", c.Operator.Validate())
	if c.RegisterCost < 0 {
		errs = errors.Append(errs, errors.Field("RegisterCost", errors.ErrInput, "cannot be negative"))
	}
	if c.StepCost < 0 {
		errs = errors.Append(errs, errors.Field("StepCost", errors.ErrInput, "cannot be negative"))
	}
	return errs
}

// GetOwner returns the operator, who is also allowed to update the
// configuration.
func (c *Configuration) GetOwner() compensation.Address {
	return c.Operator
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
