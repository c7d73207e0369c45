package comptest

import "github.com/iov-one/compensation"

// Handler returns CheckResult and DeliverResult, or the configured errors.
// When Write is set the model is stored before returning, which lets tests
// see whether a failed call was rolled back.
type Handler struct {
	calls

	CheckResult compensation.CheckResult
	CheckErr    error

	DeliverResult compensation.DeliverResult
	DeliverErr    error

	Write *compensation.Model
}

var _ compensation.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	h.check++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	h.deliver++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db compensation.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set(h.Write.Key, h.Write.Value)
}

// PanicHandler panics with Msg on every call.
type PanicHandler struct {
	Msg string
}

func (p PanicHandler) Check(compensation.Context, compensation.KVStore, compensation.Tx) (*compensation.CheckResult, error) {
	panic(p.Msg)
}

func (p PanicHandler) Deliver(compensation.Context, compensation.KVStore, compensation.Tx) (*compensation.DeliverResult, error) {
	panic(p.Msg)
}
