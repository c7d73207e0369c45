package client

import (
	"fmt"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

type (
	// TransactionID is the tendermint hash of the transaction bytes.
	TransactionID = cmn.HexBytes
	// TxQuery is a tendermint pubsub query over transaction tags.
	TxQuery = string
	// Header is a tendermint block header.
	Header = tmtypes.Header

	RequestQuery  = abci.RequestQuery
	ResponseQuery = abci.ResponseQuery
)

// CommitResult describes a transaction included in a block. Exactly one of
// Result and Err is set, depending on the DeliverTx code.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *compensation.DeliverResult
	Err    error
}

// Status is the current status of the node we connect to.
type Status struct {
	ChainID    string
	Height     int64
	CatchingUp bool
}

// Option configures a subscription.
type Option interface {
	isOption()
}

// OptionCapacity sets the buffer size of the subscription channel on the
// node side.
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID matches the transaction with the given hash.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryTxByTag matches transactions delivered with a tag of that value.
func QueryTxByTag(key, value string) TxQuery {
	return fmt.Sprintf("%s='%s'", key, value)
}

// QueryTxByAction matches transactions delivered with the given message
// path, for example "payout/distribute".
func QueryTxByAction(path string) TxQuery {
	return QueryTxByTag(utils.ActionKey, path)
}

// QueryForHeader matches every new block header.
func QueryForHeader() string {
	return QueryTxByTag(tmtypes.EventTypeKey, tmtypes.EventNewBlockHeader)
}
