package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/compensation/client"
	"github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/x/payout"
)

func cmdDrain(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Keep creating, signing and submitting distribute transactions until every
registered beneficiary is processed. The key must belong to the operator.

The command can be interrupted and started again at any time. Each run resumes
at the current ledger cursor.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use PAYOUTCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use PAYOUTCLI_PRIV_KEY environment variable to set it.")
		passFl = fl.String("passphrase", defaultPassphrase(),
			"Key file passphrase. You can use PAYOUTCLI_PASSPHRASE environment variable to set it.")
		stepsFl   = fl.Uint64("steps", 100, "Maximum number of ledger positions processed by a single transaction.")
		timeoutFl = fl.Duration("timeout", 30*time.Second, "Maximum time to wait for a transaction to be committed.")
	)
	fl.Parse(args)

	if *stepsFl == 0 {
		flagDie(`"steps" must be greater than zero`)
	}

	key, err := loadKey(*keyPathFl, *passFl)
	if err != nil {
		return err
	}

	c := client.NewClient(connect(*tmAddrFl))
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	status, err := c.Status(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("cannot fetch chain ID: %s", err)
	}

	for {
		state, err := c.PayoutState()
		if err != nil {
			return fmt.Errorf("cannot fetch payout state: %s", err)
		}
		if state.Drained() {
			_, err := fmt.Fprintf(output, "drained: %d of %d beneficiaries processed\n", state.Cursor, state.Length)
			return err
		}

		seq, err := c.NextSequence(key.PublicKey().Address())
		if err != nil {
			return fmt.Errorf("cannot fetch sequence: %s", err)
		}
		tx, err := app.NewTx(&payout.DistributeMsg{MaxSteps: *stepsFl})
		if err != nil {
			return err
		}
		if err := tx.Sign(key, status.ChainID, seq); err != nil {
			return fmt.Errorf("cannot sign transaction: %s", err)
		}
		res, err := commit(c, tx, *timeoutFl)
		if err != nil {
			return fmt.Errorf("cursor %d: %s", state.Cursor, err)
		}
		if err := printCommitResult(output, res); err != nil {
			return err
		}
	}
}
