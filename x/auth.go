package x

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// Authenticator exposes the conditions that authorized the current
// transaction. Handlers receive it in their constructor, so that tests can
// plug in a mock instead of x/sigs.
type Authenticator interface {
	// GetConditions returns every condition the transaction fulfills.
	GetConditions(compensation.Context) []compensation.Condition
	// HasAddress reports whether any fulfilled condition has this address.
	HasAddress(compensation.Context, compensation.Address) bool
}

// MultiAuth merges the result of several Authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

func (m MultiAuth) GetConditions(ctx compensation.Context) []compensation.Condition {
	var res []compensation.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx compensation.Context, addr compensation.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// RequireAddress returns ErrUnauthorized unless addr authorized the
// transaction. An empty address never matches. The role is used in the
// error message, for example "operator".
func RequireAddress(ctx compensation.Context, auth Authenticator, addr compensation.Address, role string) error {
	if addr.Validate() != nil {
		return errors.Wrapf(errors.ErrUnauthorized, "no %s configured", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", role)
	}
	return nil
}
