package compensation

import (
	"github.com/iov-one/compensation/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is returned by a successful Check. Failures are reported as
// errors and never as a result.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated bounds the work a transaction may perform. Payout
	// messages are charged per registered user or per distribution step.
	GasAllocated int64
	// GasPayment is the fee covered by the transaction signers.
	GasPayment int64
}

// NewCheck returns a result with the allocated gas and a log line.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags are indexed by tendermint. The payout.registered and
	// payout.claimed notifications are emitted as tags, so that clients
	// can search for them.
	Tags    []common.KVPair
	GasUsed int64
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckOrError converts the outcome of a Check call into a response.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverOrError converts the outcome of a Deliver call into a response.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// ParseDeliverOrError reverses DeliverOrError. A failed response is turned
// back into an error that matches the registered error of its code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// CheckTxError converts err into a failed check response. Unregistered
// errors are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txErrorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// DeliverTxError converts err into a failed deliver response. Unregistered
// errors are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txErrorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

func txErrorInfo(call string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + call + " tx: " + log
}
