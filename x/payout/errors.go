package payout

import "github.com/iov-one/compensation/errors"

// x/payout reserves 1000 ~ 1009.
var (
	// ErrLengthMismatch is returned when a registration batch contains a
	// different number of users and amounts.
	ErrLengthMismatch = errors.Register(1000, "length mismatch")

	// ErrIndexOutOfRange is returned when a ledger position is requested
	// that does not hold a beneficiary.
	ErrIndexOutOfRange = errors.Register(1001, "index out of range")

	// ErrInsufficientFunds is returned when the reserve cannot cover the
	// next scheduled payment.
	ErrInsufficientFunds = errors.Register(1002, "insufficient funds")
)
