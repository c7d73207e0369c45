package client

import (
	"context"
	"testing"

	"github.com/iov-one/compensation"
	payoutd "github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/token"
	"github.com/stretchr/testify/require"
)

// signedTx wraps msg in an envelope signed by key with its current
// sequence.
func signedTx(t testing.TB, c *Client, key crypto.PrivateKey, msg compensation.Msg) *payoutd.Tx {
	t.Helper()
	seq, err := c.NextSequence(key.PublicKey().Address())
	require.NoError(t, err)
	tx, err := newSignedTx(key, msg, seq)
	require.NoError(t, err)
	return tx
}

func newSignedTx(key crypto.PrivateKey, msg compensation.Msg, seq int64) (*payoutd.Tx, error) {
	tx, err := payoutd.NewTx(msg)
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(key, getChainID(), seq); err != nil {
		return nil, err
	}
	return tx, nil
}

func TestStatus(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	assert.Equal(t, getChainID(), status.ChainID)
	if status.Height < 1 {
		t.Fatalf("Unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	maxHeight := status.Height

	header, err := c.Header(ctx, maxHeight)
	assert.Nil(t, err)
	assert.Equal(t, maxHeight, header.Height)

	_, err = c.Header(ctx, maxHeight+20)
	if err == nil {
		t.Fatalf("Expected error for non-existent height")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithCancel(context.Background())

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	headers := make(chan Header, 5)
	err = c.SubscribeHeaders(ctx, headers)
	assert.Nil(t, err)

	// read three headers and ensure they are in order
	for i := 0; i < 3; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		if h.Height <= lastHeight {
			t.Fatalf("header %d not after %d", h.Height, lastHeight)
		}
		lastHeight = h.Height
	}

	// cancel the context and ensure the channel is closed
	cancel()
	for range headers {
	}
}

func TestSubmitRejectedTx(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	// Signed by a key that is not the operator.
	stranger := crypto.GenPrivateKey()
	tx := signedTx(t, c, stranger, &payout.DistributeMsg{MaxSteps: 1})
	_, err := c.SubmitTx(ctx, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	unsigned, err := payoutd.NewTx(&payout.DistributeMsg{MaxSteps: 1})
	require.NoError(t, err)
	_, err = c.SubmitTx(ctx, unsigned)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestQueryUnknownPath(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	res := c.Query(RequestQuery{Path: "/nothing/here"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

func TestTransferTokens(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	rcpt := crypto.GenPrivateKey().PublicKey().Address()
	tx := signedTx(t, c, operator, &token.SendMsg{
		Src:    operator.PublicKey().Address(),
		Dest:   rcpt,
		Amount: 7,
		Memo:   "client test",
	})
	res, err := c.CommitTx(ctx, tx)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	found, err := c.GetTxByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Height, found.Height)

	balance, err := c.Balance(rcpt)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), balance)
}
