package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/compensation/client"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transactions from standard input, sign them and write
them back to standard output.

Each transaction is signed with the next sequence of the key. When -seq is not
given, the first sequence is fetched from the node.
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
		chainFl = fl.String("chain", "", "Chain ID. Fetched from the node if not provided.")
		seqFl   = fl.Int64("seq", -1, "Sequence of the first signature. Fetched from the node if negative.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl, *passFl)
	if err != nil {
		return err
	}
	txs, err := readTxs(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	if len(txs) == 0 {
		return nil
	}

	chainID := *chainFl
	seq := *seqFl
	if chainID == "" || seq < 0 {
		c := client.NewClient(connect(*tmAddrFl))
		if chainID == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			status, err := c.Status(ctx)
			cancel()
			if err != nil {
				return fmt.Errorf("cannot fetch chain ID: %s", err)
			}
			chainID = status.ChainID
		}
		if seq < 0 {
			seq, err = c.NextSequence(key.PublicKey().Address())
			if err != nil {
				return fmt.Errorf("cannot fetch sequence: %s", err)
			}
		}
	}

	for i, tx := range txs {
		if err := tx.Sign(key, chainID, seq+int64(i)); err != nil {
			return fmt.Errorf("cannot sign transaction %d: %s", i, err)
		}
		if _, err := writeTx(output, tx); err != nil {
			return fmt.Errorf("cannot serialize transaction: %s", err)
		}
	}
	return nil
}
