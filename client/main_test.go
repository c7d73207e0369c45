package client

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/iov-one/compensation/app"
	payoutd "github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/store/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

// useful values for test cases
var (
	node     *nm.Node
	operator crypto.PrivateKey
)

func getChainID() string {
	return rpctest.GetConfig().ChainID()
}

// genesisApp injects the app state that the test genesis file lacks.
type genesisApp struct {
	app.BaseApp
	state []byte
}

func (g genesisApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	req.AppStateBytes = g.state
	return g.BaseApp.InitChain(req)
}

func timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func TestMain(m *testing.M) {
	operator = crypto.GenPrivateKey()
	state, err := payoutd.GenInitOptions([]string{operator.PublicKey().Address().String()})
	if err != nil {
		fmt.Printf("Cannot generate genesis: %s\n", err)
		os.Exit(1)
	}
	application := payoutd.Application(payoutd.Name, payoutd.Stack(), payoutd.TxDecoder, iavl.NewMemCommitStore(), true)
	application.WithInit(payoutd.Initializers())

	config := rpctest.GetConfig()
	config.Moniker = "PayoutClientTest"
	// we must set these two to ensure that all tags are indexed (IndexTags non-empty overrides IndexAllTags)
	config.TxIndex.IndexTags = ""
	config.TxIndex.IndexAllTags = true

	fmt.Println("Starting tendermint...")
	node = rpctest.StartTendermint(genesisApp{BaseApp: application, state: state})

	// make sure tendermint is good to go before tests
	fmt.Println("Wait for first block...")
	ctx, cancel := timeoutCtx()
	_, err = NewClient(NewLocalConnection(node)).WaitForNextBlock(ctx)
	cancel()

	// Run tests if tendermint started properly
	var code int
	if err == nil {
		code = m.Run()
	} else {
		fmt.Printf("Failed to start tendermint: %s\n", err)
		code = 1
	}

	// and shut down proper at the end
	_ = node.Stop()
	node.Wait()
	os.Exit(code)
}
