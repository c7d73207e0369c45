package app

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the complete abci.Application of a payout node. Transactions
// are decoded and passed through the handler, usually a decorator chain
// ending in a Router.
type BaseApp struct {
	*StoreApp
	decoder compensation.TxDecoder
	handler compensation.Handler
	// debug disables the redaction of internal errors in responses.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(
	store *StoreApp,
	decoder compensation.TxDecoder,
	handler compensation.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// CheckTx runs the handler against the mempool view of the state.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return compensation.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return compensation.CheckOrError(res, err, b.debug)
}

// DeliverTx runs the handler against the state of the current block.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return compensation.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return compensation.DeliverOrError(res, err, b.debug)
}

// txContext returns the block context with a logger describing the call.
func (b BaseApp) txContext(call string, tx compensation.Tx) compensation.Context {
	return compensation.WithLogInfo(b.BlockContext(),
		"call", call,
		"path", compensation.GetPath(tx))
}

// decode turns a decoder panic on malformed input into ErrPanic.
func (b BaseApp) decode(txBytes []byte) (tx compensation.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
