package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/app"
	"github.com/iov-one/compensation/client"
	payoutd "github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/store/iavl"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/p2p"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const testChainID = "payoutcli-test"

// appConn is an in-process client.Conn. Every broadcast transaction is
// committed in its own block before the call returns.
type appConn struct {
	mu     sync.Mutex
	app    app.BaseApp
	height int64
	txs    map[string]*ctypes.ResultTx
	order  []*ctypes.ResultTx
}

var _ client.Conn = (*appConn)(nil)

func newAppConn(t testing.TB, operator compensation.Address) *appConn {
	t.Helper()

	genesis, err := payoutd.GenInitOptions([]string{operator.String(), "1000"})
	require.NoError(t, err)

	myApp := payoutd.Application(payoutd.Name, payoutd.Stack(), payoutd.TxDecoder, iavl.NewMemCommitStore(), false)
	myApp.WithInit(payoutd.Initializers())
	myApp.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: genesis,
	})
	return &appConn{
		app: myApp,
		txs: make(map[string]*ctypes.ResultTx),
	}
}

// use makes all commands talk to conn until the test ends.
func (c *appConn) use(t testing.TB) {
	prev := connect
	connect = func(string) client.Conn { return c }
	t.Cleanup(func() { connect = prev })
}

func (c *appConn) Status() (*ctypes.ResultStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &ctypes.ResultStatus{
		NodeInfo: p2p.DefaultNodeInfo{Network: testChainID},
		SyncInfo: ctypes.SyncInfo{LatestBlockHeight: c.height},
	}, nil
}

func (c *appConn) BlockchainInfo(minHeight, maxHeight int64) (*ctypes.ResultBlockchainInfo, error) {
	return nil, fmt.Errorf("not supported")
}

func (c *appConn) ABCIQueryWithOptions(path string, data cmn.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data, Height: opts.Height})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

func (c *appConn) BroadcastTxSync(tx tmtypes.Tx) (*ctypes.ResultBroadcastTx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	check := c.app.CheckTx(tx)
	if check.Code != errors.SuccessABCICode {
		return &ctypes.ResultBroadcastTx{Code: check.Code, Log: check.Log, Hash: tx.Hash()}, nil
	}

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: testChainID, Height: c.height},
	})
	deliver := c.app.DeliverTx(tx)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()

	res := &ctypes.ResultTx{
		Hash:     tx.Hash(),
		Height:   c.height,
		Tx:       tx,
		TxResult: deliver,
	}
	c.txs[string(res.Hash)] = res
	c.order = append(c.order, res)
	return &ctypes.ResultBroadcastTx{Code: check.Code, Data: check.Data, Log: check.Log, Hash: res.Hash}, nil
}

func (c *appConn) Tx(hash []byte, prove bool) (*ctypes.ResultTx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.txs[string(hash)]
	if !ok {
		return nil, fmt.Errorf("tx (%X) not found", hash)
	}
	return res, nil
}

// TxSearch supports only a single key='value' tag condition.
func (c *appConn) TxSearch(query string, prove bool, page, perPage int) (*ctypes.ResultTxSearch, error) {
	chunks := strings.SplitN(query, "=", 2)
	if len(chunks) != 2 {
		return nil, fmt.Errorf("unsupported query %q", query)
	}
	key := strings.TrimSpace(chunks[0])
	value := strings.Trim(strings.TrimSpace(chunks[1]), "'")

	c.mu.Lock()
	defer c.mu.Unlock()

	var found []*ctypes.ResultTx
	for _, res := range c.order {
		for _, tag := range res.TxResult.Tags {
			if string(tag.Key) == key && string(tag.Value) == value {
				found = append(found, res)
				break
			}
		}
	}
	total := len(found)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return &ctypes.ResultTxSearch{Txs: found[start:end], TotalCount: total}, nil
}

// Subscribe returns a channel that never delivers. Committed transactions
// are always found by Tx.
func (c *appConn) Subscribe(ctx context.Context, subscriber, query string, outCapacity ...int) (<-chan ctypes.ResultEvent, error) {
	return make(chan ctypes.ResultEvent), nil
}

func (c *appConn) Unsubscribe(ctx context.Context, subscriber, query string) error {
	return nil
}

// newTestKey creates a key file protected with passphrase in a temporary
// directory and returns its path and address.
func newTestKey(t testing.TB, passphrase string) (string, compensation.Address) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key")
	var out bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &out, []string{"-key", path, "-passphrase", passphrase}))
	key, err := loadKey(path, passphrase)
	require.NoError(t, err)
	return path, key.PublicKey().Address()
}

// pipe runs the commands one after another, passing the output of each as the
// input of the next one.
func pipe(t testing.TB, cmds ...func(*bytes.Buffer, *bytes.Buffer) error) *bytes.Buffer {
	t.Helper()
	in := &bytes.Buffer{}
	for i, run := range cmds {
		out := &bytes.Buffer{}
		require.NoError(t, run(in, out), "command %d", i)
		in = out
	}
	return in
}

func step(cmd func(input io.Reader, output io.Writer, args []string) error, args ...string) func(*bytes.Buffer, *bytes.Buffer) error {
	return func(in, out *bytes.Buffer) error {
		return cmd(in, out, args)
	}
}
