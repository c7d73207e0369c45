package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/x/payout"
)

// accounts are the addresses owned by extensions rather than by keys. They
// are deterministic and can be referenced in a genesis file before the chain
// exists.
var accounts = map[string]func() compensation.Address{
	"payout-reserve": payout.ReserveAddress,
}

func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	headerFl := fl.Bool("header", true, "Display header")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s [options] [<address>...]

Print the hex and the bech32 form of addresses.

Every argument is decoded with the "hex:", "cond:" or "bech32:" prefix rules.
Without arguments the extension owned accounts are printed: %s

`, os.Args[0], strings.Join(accountNames(), ", "))
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	rows, err := resolve(fl.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := printAddresses(os.Stdout, rows, *headerFl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type row struct {
	name string
	addr compensation.Address
}

func resolve(args []string) ([]row, error) {
	if len(args) == 0 {
		var rows []row
		for _, name := range accountNames() {
			rows = append(rows, row{name: name, addr: accounts[name]()})
		}
		return rows, nil
	}

	rows := make([]row, 0, len(args))
	for _, raw := range args {
		addr, err := compensation.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %s", raw, err)
		}
		rows = append(rows, row{name: raw, addr: addr})
	}
	return rows, nil
}

func accountNames() []string {
	var names []string
	for n := range accounts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func printAddresses(out io.Writer, rows []row, header bool) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)

	if header {
		fmt.Fprintln(w, "name\thex\tbech32")
	}
	for _, r := range rows {
		bech, err := r.addr.Bech32()
		if err != nil {
			return fmt.Errorf("%s: %s", r.name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.name, r.addr, bech)
	}
	return w.Flush()
}
