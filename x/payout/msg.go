package payout

import (
	"fmt"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

const (
	pathRegisterUsersMsg       = "payout/register_users"
	pathDistributeMsg          = "payout/distribute"
	pathUpdateConfigurationMsg = "payout/update_configuration"
)

// RegisterUsersMsg appends beneficiaries to the ledger. Users and Amounts
// are paired by index.
type RegisterUsersMsg struct {
	Users   []compensation.Address `json:"users"`
	Amounts []uint64               `json:"amounts"`
}

var _ compensation.Msg = (*RegisterUsersMsg)(nil)

func (RegisterUsersMsg) Path() string {
	return pathRegisterUsersMsg
}

func (m *RegisterUsersMsg) Validate() error {
	if len(m.Users) != len(m.Amounts) {
		return errors.Wrapf(ErrLengthMismatch, "%d users, %d amounts", len(m.Users), len(m.Amounts))
	}
	if len(m.Users) == 0 {
		return errors.Wrap(errors.ErrEmpty, "users")
	}
	var errs error
	for i, u := range m.Users {
		errs = errors.AppendField(errs, fmt.Sprintf("Users.%d", i), u.Validate())
	}
	return errs
}

// DistributeMsg pays at most MaxSteps beneficiaries, starting at the
// cursor.
type DistributeMsg struct {
	MaxSteps uint64 `json:"max_steps"`
}

var _ compensation.Msg = (*DistributeMsg)(nil)

func (DistributeMsg) Path() string {
	return pathDistributeMsg
}

// Validate always passes. A zero MaxSteps is a valid no-op.
func (m *DistributeMsg) Validate() error {
	return nil
}

// UpdateConfigurationMsg patches the stored configuration. Zero value fields
// are left unchanged.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ compensation.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	var errs error
	if m.Patch.Operator != nil {
		errs = errors.AppendField(errs, "Patch.Operator", m.Patch.Operator.Validate())
	}
	if m.Patch.RegisterCost < 0 {
		errs = errors.Append(errs, errors.Field("Patch.RegisterCost", errors.ErrInput, "cannot be negative"))
	}
	if m.Patch.StepCost < 0 {
		errs = errors.Append(errs, errors.Field("Patch.StepCost", errors.ErrInput, "cannot be negative"))
	}
	return errs
}
