package sigs

import (
	"context"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/x"
)

type contextKey int

const signersKey contextKey = 0

// withSigners is unexported, only the Decorator may set signers.
func withSigners(ctx compensation.Context, signers []compensation.Condition) compensation.Context {
	return context.WithValue(ctx, signersKey, signers)
}

// Authenticate reads the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns nil outside of a signed transaction.
func (Authenticate) GetConditions(ctx compensation.Context) []compensation.Condition {
	signers, _ := ctx.Value(signersKey).([]compensation.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx compensation.Context, addr compensation.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
