package payout

import (
	"context"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/gconf"
	"github.com/iov-one/compensation/orm"
	"github.com/iov-one/compensation/store"
	"github.com/iov-one/compensation/x/token"
	"github.com/stretchr/testify/require"
)

const (
	testRegisterCost = 10
	testStepCost     = 50
)

type registry struct {
	handlers map[string]compensation.Handler
}

func (r *registry) Handle(path string, h compensation.Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]compensation.Handler)
	}
	r.handlers[path] = h
}

// setup returns a store with the payout configuration and a funded reserve,
// and the routes authenticated by the given auth.
func setup(t testing.TB, operator compensation.Address, auth *comptest.CtxAuth, reserve uint64) (compensation.CacheableKVStore, *registry, token.BaseController) {
	t.Helper()
	db := store.MemStore()
	conf := Configuration{
		Operator:     operator,
		RegisterCost: testRegisterCost,
		StepCost:     testStepCost,
	}
	require.NoError(t, gconf.Save(db, confPkg, &conf))

	ctrl := token.NewController()
	if reserve > 0 {
		require.NoError(t, ctrl.Issue(db, ReserveAddress(), reserve))
	}
	rt := &registry{}
	RegisterRoutes(rt, auth, ctrl)
	return db, rt, ctrl
}

func TestRegisterUsersHandler(t *testing.T) {
	operator := comptest.NewCondition()
	stranger := comptest.NewCondition()
	users := newAddrs(3)
	registered := newAddrs(1)

	cases := map[string]struct {
		signer         compensation.Condition
		msg            compensation.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantGas        int64
		wantLen        uint64
	}{
		"operator registers users": {
			signer:  operator,
			msg:     &RegisterUsersMsg{Users: users, Amounts: []uint64{1, 2, 3}},
			wantGas: 3 * testRegisterCost,
			wantLen: 4,
		},
		"stranger cannot register": {
			signer:         stranger,
			msg:            &RegisterUsersMsg{Users: users, Amounts: []uint64{1, 2, 3}},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantLen:        1,
		},
		"length mismatch": {
			signer:         operator,
			msg:            &RegisterUsersMsg{Users: users, Amounts: []uint64{1, 2}},
			wantCheckErr:   ErrLengthMismatch,
			wantDeliverErr: ErrLengthMismatch,
			wantLen:        1,
		},
		"already registered": {
			signer:         operator,
			msg:            &RegisterUsersMsg{Users: append(users[:1:1], registered...), Amounts: []uint64{1, 2}},
			wantGas:        2 * testRegisterCost,
			wantDeliverErr: errors.ErrDuplicate,
			wantLen:        1,
		},
		"wrong message type": {
			signer:         operator,
			msg:            &DistributeMsg{MaxSteps: 1},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
			wantLen:        1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &comptest.CtxAuth{Key: "auth"}
			db, rt, _ := setup(t, operator.Address(), auth, 0)
			_, err := NewLedger().Register(db, registered, []uint64{100})
			require.NoError(t, err)

			h := rt.handlers[pathRegisterUsersMsg]
			ctx := auth.SetConditions(context.Background(), tc.signer)
			tx := &comptest.Tx{Msg: tc.msg}

			res, err := h.Check(ctx, db.CacheWrap(), tx)
			if !tc.wantCheckErr.Is(err) {
				t.Fatalf("check: want %q, got %+v", tc.wantCheckErr, err)
			}
			if err == nil {
				assert.Equal(t, tc.wantGas, res.GasAllocated)
			}

			cache := db.CacheWrap()
			dres, err := h.Deliver(ctx, cache, tx)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("deliver: want %q, got %+v", tc.wantDeliverErr, err)
			}
			if err == nil {
				assert.Nil(t, cache.Write())
				msg := tc.msg.(*RegisterUsersMsg)
				require.Len(t, dres.Tags, len(msg.Users))
				for i, tag := range dres.Tags {
					assert.Equal(t, RegisteredTag, string(tag.Key))
					addr, amount, err := ParseTagValue(tag.Value)
					require.NoError(t, err)
					assert.Equal(t, msg.Users[i], addr)
					assert.Equal(t, msg.Amounts[i], amount)
				}
			} else {
				cache.Discard()
			}

			n, err := NewLedger().Len(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantLen, n)
		})
	}
}

func TestDistributeHandler(t *testing.T) {
	operator := comptest.NewCondition()
	auth := &comptest.CtxAuth{Key: "auth"}
	db, rt, ctrl := setup(t, operator.Address(), auth, 900000*oneUSDC)

	users := newAddrs(3)
	amounts := []uint64{oneUSDC, 5 * oneUSDC, 3 * oneUSDC}
	ctx := auth.SetConditions(context.Background(), operator)

	reg := &comptest.Tx{Msg: &RegisterUsersMsg{Users: users, Amounts: amounts}}
	_, err := rt.handlers[pathRegisterUsersMsg].Deliver(ctx, db, reg)
	require.NoError(t, err)

	h := rt.handlers[pathDistributeMsg]
	batches := []struct {
		steps      uint64
		wantGas    int64
		wantPaid   []int
		wantCursor uint64
	}{
		{steps: 2, wantGas: 2 * testStepCost, wantPaid: []int{0, 1}, wantCursor: 2},
		{steps: 5, wantGas: 1 * testStepCost, wantPaid: []int{2}, wantCursor: 3},
		{steps: 5, wantGas: 0, wantCursor: 3},
	}
	for i, b := range batches {
		tx := &comptest.Tx{Msg: &DistributeMsg{MaxSteps: b.steps}}

		cres, err := h.Check(ctx, db.CacheWrap(), tx)
		require.NoError(t, err, "batch %d", i)
		assert.Equal(t, b.wantGas, cres.GasAllocated)

		dres, err := h.Deliver(ctx, db, tx)
		require.NoError(t, err, "batch %d", i)
		require.Len(t, dres.Tags, len(b.wantPaid))
		for j, idx := range b.wantPaid {
			assert.Equal(t, ClaimedTag, string(dres.Tags[j].Key))
			addr, amount, err := ParseTagValue(dres.Tags[j].Value)
			require.NoError(t, err)
			assert.Equal(t, users[idx], addr)
			assert.Equal(t, amounts[idx], amount)
		}

		var state State
		require.NoError(t, orm.Unmarshal(dres.Data, &state))
		assert.Equal(t, b.wantCursor, state.Cursor)
		assert.Equal(t, uint64(3), state.Length)
	}

	for i, u := range users {
		got, err := ctrl.Balance(db, u)
		require.NoError(t, err)
		assert.Equal(t, amounts[i], got)
	}
	left, err := ctrl.Balance(db, ReserveAddress())
	require.NoError(t, err)
	assert.Equal(t, uint64(900000*oneUSDC-9*oneUSDC), left)
}

func TestDistributeHandlerFailures(t *testing.T) {
	operator := comptest.NewCondition()
	stranger := comptest.NewCondition()

	cases := map[string]struct {
		signer  compensation.Condition
		reserve uint64
		wantErr *errors.Error
	}{
		"stranger cannot distribute": {
			signer:  stranger,
			reserve: 1000,
			wantErr: errors.ErrUnauthorized,
		},
		"reserve too small": {
			signer:  operator,
			reserve: 99,
			wantErr: ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &comptest.CtxAuth{Key: "auth"}
			db, rt, _ := setup(t, operator.Address(), auth, tc.reserve)
			users := newAddrs(1)
			_, err := NewLedger().Register(db, users, []uint64{100})
			require.NoError(t, err)

			ctx := auth.SetConditions(context.Background(), tc.signer)
			tx := &comptest.Tx{Msg: &DistributeMsg{MaxSteps: 10}}
			_, err = rt.handlers[pathDistributeMsg].Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantErr, err)

			l := NewLedger()
			cursor, err := l.Cursor(db)
			assert.Nil(t, err)
			assert.Equal(t, uint64(0), cursor)
			claimed, err := l.Claimed(db, users[0])
			assert.Nil(t, err)
			assert.Equal(t, false, claimed)
		})
	}
}

func TestHandlersRequireConfiguration(t *testing.T) {
	operator := comptest.NewCondition()
	auth := &comptest.Auth{Signer: operator}
	rt := &registry{}
	RegisterRoutes(rt, auth, token.NewController())

	db := store.MemStore()
	tx := &comptest.Tx{Msg: &DistributeMsg{MaxSteps: 1}}
	_, err := rt.handlers[pathDistributeMsg].Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestUpdateConfigurationHandler(t *testing.T) {
	operator := comptest.NewCondition()
	successor := comptest.NewCondition()
	auth := &comptest.CtxAuth{Key: "auth"}
	db, rt, _ := setup(t, operator.Address(), auth, 0)

	h := rt.handlers[pathUpdateConfigurationMsg]
	tx := &comptest.Tx{Msg: &UpdateConfigurationMsg{
		Patch: &Configuration{Operator: successor.Address(), StepCost: 7},
	}}

	// Only the operator can hand over the ledger.
	_, err := h.Deliver(auth.SetConditions(context.Background(), successor), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = h.Deliver(auth.SetConditions(context.Background(), operator), db, tx)
	assert.Nil(t, err)

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, successor.Address(), conf.Operator)
	assert.Equal(t, int64(testRegisterCost), conf.RegisterCost)
	assert.Equal(t, int64(7), conf.StepCost)

	// The former operator lost the right to distribute.
	dist := &comptest.Tx{Msg: &DistributeMsg{MaxSteps: 1}}
	_, err = rt.handlers[pathDistributeMsg].Check(auth.SetConditions(context.Background(), operator), db, dist)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = rt.handlers[pathDistributeMsg].Check(auth.SetConditions(context.Background(), successor), db, dist)
	assert.Nil(t, err)
}
