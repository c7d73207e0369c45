package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/commands/server"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/gconf"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/token"
)

// Out is the JSON representation of the payout ledger.
type Out struct {
	Height        int64                `json:"height"`
	State         payout.State         `json:"state"`
	Configuration payout.Configuration `json:"configuration"`
	Reserve       uint64               `json:"reserve"`
	Beneficiaries []beneficiaryFormat  `json:"beneficiaries"`
}

type beneficiaryFormat struct {
	Address compensation.Address `json:"address"`
	Amount  uint64               `json:"amount"`
	Claimed bool                 `json:"claimed"`
	Balance uint64               `json:"balance"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Export the payout ledger of a stopped payoutd node.

The csv format writes address and amount columns that can be registered on
another chain with "payoutcli register -file". Use -pending to export only
beneficiaries that were not paid yet.`)
		flag.PrintDefaults()
	}
	var (
		homeFl = flag.String("home", os.ExpandEnv("$HOME")+"/.payoutd",
			"payoutd home directory")
		storeFl = flag.String("store", server.StoreIAVL,
			"payoutd store backend: iavl or bolt")
		formatFl = flag.String("format", "json",
			"output format: json or csv")
		pendingFl = flag.Bool("pending", false,
			"export only beneficiaries that were not paid yet")
		outFl = flag.String("out", "-",
			"output file, - for the standard output")
	)
	flag.Parse()

	if *formatFl != "json" && *formatFl != "csv" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *formatFl)
		os.Exit(2)
	}
	if _, err := os.Stat(*homeFl); os.IsNotExist(err) {
		fatalf("home directory does not exist: %s", err)
	}

	kv, err := app.CommitKVStore(*homeFl, *storeFl)
	if err != nil {
		fatalf("cannot initialize payoutd commit store: %s", err)
	}
	if err := kv.LoadLatestVersion(); err != nil {
		fatalf("cannot load db version: %s", err)
	}
	info, err := kv.LatestVersion()
	if err != nil {
		fatalf("cannot read db version: %s", err)
	}

	dump, err := extractLedger(kv, *pendingFl)
	if err != nil {
		fatalf("cannot extract ledger: %s", err)
	}
	dump.Height = info.Version

	out := io.Writer(os.Stdout)
	if *outFl != "-" {
		fd, err := os.Create(*outFl)
		if err != nil {
			fatalf("cannot create output file: %s", err)
		}
		defer fd.Close()
		out = fd
	}

	if *formatFl == "csv" {
		err = writeCSV(out, dump)
	} else {
		err = writeJSON(out, dump)
	}
	if err != nil {
		fatalf("cannot write output: %s", err)
	}
}

// extractLedger reads the ledger, the configuration and the balances of the
// reserve and of every beneficiary.
func extractLedger(db compensation.ReadOnlyKVStore, pendingOnly bool) (*Out, error) {
	ledger := payout.NewLedger()
	tokens := token.NewController()

	state, err := ledger.State(db)
	if err != nil {
		return nil, errors.Wrap(err, "state")
	}
	var conf payout.Configuration
	if err := gconf.Load(db, "payout", &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "configuration")
	}
	reserve, err := tokens.Balance(db, payout.ReserveAddress())
	if err != nil {
		return nil, errors.Wrap(err, "reserve")
	}

	out := &Out{
		State:         *state,
		Configuration: conf,
		Reserve:       reserve,
		Beneficiaries: []beneficiaryFormat{},
	}
	for pos := uint64(0); pos < state.Length; pos++ {
		b, err := ledger.Record(db, pos)
		if err != nil {
			return nil, err
		}
		if pendingOnly && b.Claimed {
			continue
		}
		balance, err := tokens.Balance(db, b.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "balance of %s", b.Address)
		}
		out.Beneficiaries = append(out.Beneficiaries, beneficiaryFormat{
			Address: b.Address,
			Amount:  b.Amount,
			Claimed: b.Claimed,
			Balance: balance,
		})
	}
	return out, nil
}

func writeJSON(w io.Writer, dump *Out) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// writeCSV writes one address,amount row per beneficiary.
func writeCSV(w io.Writer, dump *Out) error {
	cw := csv.NewWriter(w)
	for _, b := range dump.Beneficiaries {
		if err := cw.Write([]string{b.Address.String(), strconv.FormatUint(b.Amount, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
