package token

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

const maxMemoSize = 128

// SendMsg moves tokens from the signer wallet to another address.
type SendMsg struct {
	Src    compensation.Address `json:"src"`
	Dest   compensation.Address `json:"dest"`
	Amount uint64               `json:"amount"`
	Memo   string               `json:"memo,omitempty"`
}

var _ compensation.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "token/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Src", m.Src.Validate())
	errs = errors.AppendField(errs, "Dest", m.Dest.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "cannot be longer than %d", maxMemoSize))
	}
	return errs
}
