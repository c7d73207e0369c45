package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display a summary of every transaction read from the standard input.
Before signing you should check what kind of operation are you authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	txs, err := readTxs(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	if len(txs) == 0 {
		return fmt.Errorf("no input data")
	}
	for _, tx := range txs {
		if err := printJSON(output, tx); err != nil {
			return err
		}
	}
	return nil
}
