/*
Package client talks to a running payout node over the tendermint rpc. It
submits transactions, follows their inclusion in blocks and reads the
application state through abci queries.
*/
package client

import (
	"context"
	"fmt"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// txPerPage is the tendermint maximum.
const txPerPage = 100

// Client exposes the node primitives in this file. Waiting helpers are in
// wrapper.go and the payout specific queries in payout.go.
type Client struct {
	conn Conn
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Status reports the chain id and the height the node knows about.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		ChainID:    status.NodeInfo.Network,
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns ErrNotFound for a height that was not reached yet.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no headers for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SubmitTx adds the transaction to the mempool and returns its id. A check
// failure, such as a missing operator signature, is returned as the
// registered error. Use WatchTx or CommitTx for the deliver result.
func (c *Client) SubmitTx(ctx context.Context, tx compensation.Marshaller) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// Query has the signature of abci.Application.Query, so that the client
// can back an app.ABCIStore. Network failures become ErrNetwork responses.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, rpcclient.ABCIQueryOptions{
		Height: query.Height,
		Prove:  query.Prove,
	})
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// GetTxByID returns the committed transaction or an error if the node does
// not know it.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err)
	}
	return resultTxToCommitResult(tx), nil
}

// SearchTx returns all committed transactions matching query, oldest
// first. Every page is fetched before returning.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var results []*CommitResult
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrTimeout, err.Error())
		}
		search, err := c.conn.TxSearch(query, false, page, txPerPage)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err)
		}
		for _, tx := range search.Txs {
			results = append(results, resultTxToCommitResult(tx))
		}
		if len(search.Txs) == 0 || len(results) >= search.TotalCount {
			return results, nil
		}
	}
}

// SubscribeHeaders sends every new header to results until ctx is done.
// The channel is closed when the subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header, options ...Option) error {
	events, err := c.subscribe(ctx, QueryForHeader(), options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		forEach(ctx, events, func(ev ctypes.ResultEvent) bool {
			h, ok := ev.Data.(tmtypes.EventDataNewBlockHeader)
			return !ok || send(ctx, results, h.Header)
		})
	}()
	return nil
}

// SubscribeTx sends every delivered transaction matching query to results
// until ctx is done. The channel is closed when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult, options ...Option) error {
	q := fmt.Sprintf("%s='%s' AND %s", tmtypes.EventTypeKey, tmtypes.EventTx, query)
	events, err := c.subscribe(ctx, q, options...)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		forEach(ctx, events, func(ev ctypes.ResultEvent) bool {
			tx, ok := ev.Data.(tmtypes.EventDataTx)
			return !ok || sendResult(ctx, results, txResultToCommitResult(tx.TxResult))
		})
	}()
	return nil
}

// forEach calls fn for every event until ctx is done, the events channel
// is closed or fn returns false.
func forEach(ctx context.Context, events <-chan ctypes.ResultEvent, fn func(ctypes.ResultEvent) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !fn(ev) {
				return
			}
		}
	}
}

func send(ctx context.Context, out chan<- Header, h Header) bool {
	select {
	case out <- h:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendResult(ctx context.Context, out chan<- CommitResult, r CommitResult) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// subscribe unsubscribes as soon as ctx is done.
func (c *Client) subscribe(ctx context.Context, query string, options ...Option) (<-chan ctypes.ResultEvent, error) {
	var outCapacity []int
	for _, option := range options {
		if o, ok := option.(OptionCapacity); ok {
			outCapacity = []int{o.Capacity}
		}
	}
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err)
	}

	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String(), outCapacity...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe to %q: %s", query, err)
	}
	go func(done <-chan struct{}, query string) {
		<-done
		_ = c.conn.Unsubscribe(context.Background(), subscriber, query)
	}(ctx.Done(), q.String())
	return out, nil
}

func resultTxToCommitResult(tx *ctypes.ResultTx) *CommitResult {
	res, err := compensation.ParseDeliverOrError(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

func txResultToCommitResult(tx tmtypes.TxResult) CommitResult {
	res, err := compensation.ParseDeliverOrError(tx.Result)
	return CommitResult{
		ID:     tx.Tx.Hash(),
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}
