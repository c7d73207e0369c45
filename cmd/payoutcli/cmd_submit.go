package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/client"
	"github.com/iov-one/compensation/x/payout"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transactions from standard input and submit them one
after another. Each transaction is committed before the next one is sent.

For every committed transaction the block height is written out, followed by
the registration and payment events it emitted.

Make sure to sign the transactions before submitting them.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use PAYOUTCLI_TM_ADDR environment variable to set it.")
		timeoutFl = fl.Duration("timeout", 30*time.Second, "Maximum time to wait for a transaction to be committed.")
	)
	fl.Parse(args)

	txs, err := readTxs(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	c := client.NewClient(connect(*tmAddrFl))
	for i, tx := range txs {
		res, err := commit(c, tx, *timeoutFl)
		if err != nil {
			return fmt.Errorf("transaction %d: %s", i, err)
		}
		if err := printCommitResult(output, res); err != nil {
			return err
		}
	}
	return nil
}

func commit(c *client.Client, tx compensation.Marshaller, timeout time.Duration) (*client.CommitResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := c.CommitTx(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("cannot commit: %s", err)
	}
	if res.Err != nil {
		return nil, fmt.Errorf("rejected at height %d: %s", res.Height, res.Err)
	}
	return res, nil
}

// printCommitResult writes the height followed by one line per payout event.
func printCommitResult(w io.Writer, res *client.CommitResult) error {
	if _, err := fmt.Fprintf(w, "committed %X at height %d\n", res.ID, res.Height); err != nil {
		return err
	}
	if res.Result == nil {
		return nil
	}
	for _, tag := range res.Result.Tags {
		var name string
		switch string(tag.Key) {
		case payout.RegisteredTag:
			name = "registered"
		case payout.ClaimedTag:
			name = "claimed"
		default:
			continue
		}
		addr, amount, err := payout.ParseTagValue(tag.Value)
		if err != nil {
			return fmt.Errorf("cannot parse %s event: %s", name, err)
		}
		if _, err := fmt.Fprintf(w, "\t%s\t%s\t%d\n", name, addr, amount); err != nil {
			return err
		}
	}
	return nil
}
