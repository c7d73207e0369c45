package token

import "github.com/iov-one/compensation/errors"

// x/token reserves 130 ~ 139.
var (
	ErrInsufficientBalance = errors.Register(130, "insufficient balance")
)
