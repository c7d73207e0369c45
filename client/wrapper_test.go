package client

import (
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/x/token"
	"github.com/stretchr/testify/require"
)

func TestWaitForNextBlock(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	header, err := c.WaitForNextBlock(ctx)
	assert.Nil(t, err)
	if header.Height <= lastHeight {
		t.Fatalf("header %d not after %d", header.Height, lastHeight)
	}
}

func TestWaitForHeight(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	cases := map[string]struct {
		diff int64
	}{
		"next block":   {diff: 1},
		"old block":    {diff: -2},
		"future block": {diff: 3},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, err := c.Status(ctx)
			assert.Nil(t, err)
			desired := status.Height + tc.diff

			header, err := c.WaitForHeight(ctx, desired)
			assert.Nil(t, err)
			if header == nil {
				t.Fatalf("Returned nil header")
			}
			if header.Height < desired {
				t.Fatalf("header %d before desired %d", header.Height, desired)
			}
		})
	}
}

func TestCommitTxs(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	src := operator.PublicKey().Address()
	seq, err := c.NextSequence(src)
	require.NoError(t, err)

	rcpts := []compensation.Address{
		crypto.GenPrivateKey().PublicKey().Address(),
		crypto.GenPrivateKey().PublicKey().Address(),
	}
	txs := make([]compensation.Marshaller, len(rcpts))
	for i, rcpt := range rcpts {
		msg := &token.SendMsg{Src: src, Dest: rcpt, Amount: uint64(i + 1)}
		tx, err := newSignedTx(operator, msg, seq+int64(i))
		require.NoError(t, err)
		txs[i] = tx
	}

	results, err := c.CommitTxs(ctx, txs)
	require.NoError(t, err)
	require.Len(t, results, len(txs))
	for i, res := range results {
		assert.Nil(t, res.Err)
		balance, err := c.Balance(rcpts[i])
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), balance)
	}
}
