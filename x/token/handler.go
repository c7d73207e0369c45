package token

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r compensation.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr compensation.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending tokens
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ compensation.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &compensation.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(store, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &compensation.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx compensation.Context, tx compensation.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := compensation.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireAddress(ctx, h.auth, msg.Src, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}
