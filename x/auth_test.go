package x

import (
	"context"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
)

func TestChainAuth(t *testing.T) {
	a := comptest.NewCondition()
	b := comptest.NewCondition()
	c := comptest.NewCondition()

	ctxAuth := &comptest.CtxAuth{Key: "signers"}
	ctx := ctxAuth.SetConditions(context.Background(), c)

	auth := ChainAuth(
		&comptest.Auth{Signer: a},
		&comptest.Auth{Signers: []compensation.Condition{b}},
		ctxAuth,
	)
	assert.Equal(t, []compensation.Condition{a, b, c}, auth.GetConditions(ctx))
	for _, cond := range []compensation.Condition{a, b, c} {
		if !auth.HasAddress(ctx, cond.Address()) {
			t.Fatalf("%s not authorized", cond)
		}
	}
	if auth.HasAddress(context.Background(), c.Address()) {
		t.Fatal("context condition leaked into a fresh context")
	}
}

func TestRequireAddress(t *testing.T) {
	operator := comptest.NewCondition()
	stranger := comptest.NewCondition()
	auth := &comptest.Auth{Signer: operator}
	ctx := context.Background()

	cases := map[string]struct {
		addr    compensation.Address
		wantErr *errors.Error
	}{
		"signed": {
			addr: operator.Address(),
		},
		"not signed": {
			addr:    stranger.Address(),
			wantErr: errors.ErrUnauthorized,
		},
		"no address": {
			addr:    nil,
			wantErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := RequireAddress(ctx, auth, tc.addr, "operator")
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
