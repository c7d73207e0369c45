package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/client"
	"github.com/iov-one/compensation/x/payout"
)

func cmdState(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print the payout ledger state: number of registered beneficiaries, sum of all
registered amounts and the position of the next beneficiary to be paid.
`)
	tmAddrFl := flTmAddr(fl)
	fl.Parse(args)

	state, err := client.NewClient(connect(*tmAddrFl)).PayoutState()
	if err != nil {
		return fmt.Errorf("cannot fetch payout state: %s", err)
	}
	return printJSON(output, state)
}

func cmdUsers(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print all registered beneficiaries in ledger order.
`)
	tmAddrFl := flTmAddr(fl)
	fl.Parse(args)

	users, err := client.NewClient(connect(*tmAddrFl)).Users()
	if err != nil {
		return fmt.Errorf("cannot fetch users: %s", err)
	}
	return printJSON(output, users)
}

func cmdBeneficiary(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print the compensation and the claimed flag of a single address. An address
that was never registered has zero compensation.
`)
	var (
		tmAddrFl = flTmAddr(fl)
		addrFl   = flAddress(fl, "addr", "", "Address of the beneficiary. Required.")
	)
	fl.Parse(args)

	if len(*addrFl) == 0 {
		flagDie(`"addr" is required`)
	}
	b, err := client.NewClient(connect(*tmAddrFl)).Beneficiary(*addrFl)
	if err != nil {
		return fmt.Errorf("cannot fetch beneficiary: %s", err)
	}
	return printJSON(output, b)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print the token balance of an address.
`)
	var (
		tmAddrFl = flTmAddr(fl)
		addrFl   = flAddress(fl, "addr", "", "Address of the wallet. Required.")
	)
	fl.Parse(args)

	if len(*addrFl) == 0 {
		flagDie(`"addr" is required`)
	}
	return printBalance(output, connect(*tmAddrFl), *addrFl)
}

func cmdReserve(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print the token balance of the payout reserve. Payments are taken from it.
`)
	tmAddrFl := flTmAddr(fl)
	fl.Parse(args)

	return printBalance(output, connect(*tmAddrFl), payout.ReserveAddress())
}

func printBalance(output io.Writer, conn client.Conn, addr compensation.Address) error {
	balance, err := client.NewClient(conn).Balance(addr)
	if err != nil {
		return fmt.Errorf("cannot fetch balance: %s", err)
	}
	return printJSON(output, struct {
		Address compensation.Address `json:"address"`
		Balance uint64               `json:"balance"`
	}{addr, balance})
}

func cmdConfiguration(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print the payout configuration.
`)
	tmAddrFl := flTmAddr(fl)
	fl.Parse(args)

	conf, err := client.NewClient(connect(*tmAddrFl)).PayoutConfiguration()
	if err != nil {
		return fmt.Errorf("cannot fetch configuration: %s", err)
	}
	return printJSON(output, conf)
}

func cmdClaims(input io.Reader, output io.Writer, args []string) error {
	fl := queryFlagSet(`
Print all payments made so far, oldest first. Requires the node to index
transaction tags.
`)
	var (
		tmAddrFl  = flTmAddr(fl)
		timeoutFl = fl.Duration("timeout", 30*time.Second, "Maximum time to wait for the search result.")
	)
	fl.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()
	claims, err := client.NewClient(connect(*tmAddrFl)).Claims(ctx)
	if err != nil {
		return fmt.Errorf("cannot search claims: %s", err)
	}
	type claim struct {
		Address compensation.Address `json:"address"`
		Amount  uint64               `json:"amount"`
	}
	res := make([]claim, 0, len(claims))
	for _, c := range claims {
		res = append(res, claim{Address: c.Address, Amount: c.Amount})
	}
	return printJSON(output, res)
}

func queryFlagSet(usage string) *flag.FlagSet {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	return fl
}

func flTmAddr(fl *flag.FlagSet) *string {
	return fl.String("tm", defaultTmAddr(),
		"Tendermint node address. You can use PAYOUTCLI_TM_ADDR environment variable to set it.")
}

func printJSON(w io.Writer, v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
