package client

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
)

// indexDelay is how long the node may take to index the transactions of a
// block after announcing it.
const indexDelay = 100 * time.Millisecond

// SubscribeTxByID blocks until the transaction is delivered in a block. The
// context must be cancelled or time out, otherwise a transaction that never
// makes it into a block blocks forever.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// WatchTx returns the result of the transaction once it is in a block. A
// transaction that was already committed is found by a search, so there is
// no race between submitting and subscribing.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		res *CommitResult
		err error
	}
	sub := make(chan outcome, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- outcome{res: res, err: err}
	}()

	// A missing transaction is reported as an rpc error.
	if found, _ := c.GetTxByID(ctx, id); found != nil {
		return found, nil
	}

	select {
	case o := <-sub:
		return o.res, o.err
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrTimeout, ctx.Err().Error())
	}
}

// CommitTx submits the transaction and waits until it is delivered. A
// check failure is returned as an error. A deliver failure is returned in
// CommitResult.Err.
func (c *Client) CommitTx(ctx context.Context, tx compensation.Marshaller) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WatchTxs watches all transactions in parallel. Results are in the order
// of ids. Nil ids are skipped and leave a nil result.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed error
	)
	res := make([]*CommitResult, len(ids))
	for i, id := range ids {
		if id == nil {
			continue
		}
		wg.Add(1)
		go func(i int, id TransactionID) {
			defer wg.Done()
			r, err := c.WatchTx(ctx, id)
			mu.Lock()
			res[i] = r
			failed = errors.Append(failed, err)
			mu.Unlock()
		}(i, id)
	}
	wg.Wait()

	if failed != nil {
		return nil, failed
	}
	return res, nil
}

// CommitTxs submits all transactions in order and waits for all of them.
// Signed distribute batches use consecutive sequences, so the submission
// order matters while the inclusion is awaited concurrently. The first
// check failure aborts the submission.
func (c *Client) CommitTxs(ctx context.Context, txs []compensation.Marshaller) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		ids[i] = id
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock returns the first header announced after the call.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(*Header) bool { return true })
}

// WaitForHeight returns the first announced header at or above height. A
// height in the past still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitForHeader(ctx, func(h *Header) bool { return h.Height >= height })
}

func (c *Client) waitForHeader(ctx context.Context, accept func(*Header) bool) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if accept(&h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	return nil, errors.Wrap(errors.ErrNetwork, "subscription closed before the header arrived")
}
