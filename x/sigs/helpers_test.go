package sigs

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
)

// StdTx is a minimal SignedTx that signs over fixed bytes.
type StdTx struct {
	comptest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      comptest.Tx{Msg: &comptest.Msg{RoutePath: "test/sigs"}},
		Payload: payload,
	}
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []compensation.Condition
}

var _ compensation.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &compensation.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx compensation.Context, store compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &compensation.DeliverResult{}, nil
}
