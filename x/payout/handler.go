package payout

import (
	"fmt"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/gconf"
	"github.com/iov-one/compensation/orm"
	"github.com/iov-one/compensation/x"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r compensation.Registry, auth x.Authenticator, tokens TokenController) {
	ledger := NewLedger()
	r.Handle(pathRegisterUsersMsg, &registerUsersHandler{auth: auth, ledger: ledger})
	r.Handle(pathDistributeMsg, &distributeHandler{auth: auth, ledger: ledger, distributor: NewDistributor(ledger, tokens)})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth))
}

type registerUsersHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ compensation.Handler = (*registerUsersHandler)(nil)

func (h *registerUsersHandler) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &compensation.CheckResult{GasAllocated: conf.RegisterCost * int64(len(msg.Users))}, nil
}

func (h *registerUsersHandler) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	events, err := h.ledger.Register(db, msg.Users, msg.Amounts)
	if err != nil {
		return nil, errors.Wrap(err, "register")
	}
	tags := make([]common.KVPair, len(events))
	for i, e := range events {
		tags[i] = e.Tag()
	}
	return &compensation.DeliverResult{
		Log:  fmt.Sprintf("registered %d users", len(events)),
		Tags: tags,
	}, nil
}

func (h *registerUsersHandler) validate(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*RegisterUsersMsg, *Configuration, error) {
	var msg RegisterUsersMsg
	if err := compensation.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := requireOperator(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, conf, nil
}

type distributeHandler struct {
	auth        x.Authenticator
	ledger      Ledger
	distributor Distributor
}

var _ compensation.Handler = (*distributeHandler)(nil)

func (h *distributeHandler) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	n, err := h.distributor.Pending(db, msg.MaxSteps)
	if err != nil {
		return nil, err
	}
	return &compensation.CheckResult{GasAllocated: conf.StepCost * int64(n)}, nil
}

func (h *distributeHandler) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	events, err := h.distributor.Distribute(db, msg.MaxSteps)
	if err != nil {
		return nil, errors.Wrap(err, "distribute")
	}

	state, err := h.ledger.State(db)
	if err != nil {
		return nil, err
	}
	compensation.GetLogger(ctx).Debug("distribute",
		"claimed", len(events),
		"cursor", state.Cursor,
		"users", state.Length)

	data, err := orm.Marshal(state)
	if err != nil {
		return nil, err
	}
	tags := make([]common.KVPair, len(events))
	for i, e := range events {
		tags[i] = e.Tag()
	}
	return &compensation.DeliverResult{
		Data: data,
		Log:  fmt.Sprintf("claimed %d, cursor %d of %d", len(events), state.Cursor, state.Length),
		Tags: tags,
	}, nil
}

func (h *distributeHandler) validate(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*DistributeMsg, *Configuration, error) {
	var msg DistributeMsg
	if err := compensation.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := requireOperator(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, conf, nil
}

func requireOperator(ctx compensation.Context, db compensation.KVStore, auth x.Authenticator) (*Configuration, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := x.RequireAddress(ctx, auth, conf.Operator, "operator"); err != nil {
		return nil, err
	}
	return conf, nil
}
