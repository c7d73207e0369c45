/*
Package comptest holds mocks and helpers for testing payout and token
handlers without running the application.
*/
package comptest

import (
	"context"
	"fmt"

	"github.com/iov-one/compensation"
)

// Auth authorizes a fixed set of conditions. Signer and Signers are merged,
// Signer coming last.
type Auth struct {
	Signer  compensation.Condition
	Signers []compensation.Condition
}

func (a *Auth) GetConditions(compensation.Context) []compensation.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(a.Signers, a.Signer)
}

func (a *Auth) HasAddress(ctx compensation.Context, addr compensation.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authorizes the conditions stored in the context under Key. Tests
// that build a context per call, like an operator signing one transaction
// and a stranger the next, use it instead of Auth.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context in which the given conditions signed the
// transaction.
func (a *CtxAuth) SetConditions(ctx compensation.Context, conds ...compensation.Condition) compensation.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx compensation.Context) []compensation.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []compensation.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx compensation.Context, addr compensation.Address) bool {
	return containsAddress(a.GetConditions(ctx), addr)
}

func containsAddress(conds []compensation.Condition, addr compensation.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
