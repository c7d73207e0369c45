package app

import (
	"context"
	"testing"

	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x/utils"
)

func TestChain(t *testing.T) {
	var (
		d1 = &comptest.Decorator{}
		d2 = &comptest.Decorator{}
		d3 = &comptest.Decorator{}
		h  = &comptest.Handler{}

		nilDecorator *comptest.Decorator
	)

	stack := ChainDecorators(
		d1,
		utils.NewLogging(),
		nilDecorator,
		utils.NewRecovery(),
		d2,
	).Chain(nil, d3).WithHandler(h)

	ctx := context.Background()
	tx := &comptest.Tx{Msg: &comptest.Msg{RoutePath: "payout/test"}}

	_, err := stack.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, d3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// An error stops the chain.
	d2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, d1.CallCount())
	assert.Equal(t, 3, d2.CallCount())
	assert.Equal(t, 2, d3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanics(t *testing.T) {
	d := &comptest.Decorator{}
	stack := ChainDecorators(
		utils.NewRecovery(),
		d,
	).WithHandler(comptest.PanicHandler{Msg: "boom"})

	tx := &comptest.Tx{Msg: &comptest.Msg{RoutePath: "payout/test"}}
	_, err := stack.Deliver(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, 1, d.DeliverCallCount())
}
