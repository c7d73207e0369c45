package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/compensation"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is an independent runable that is taking input and output
// being stdin and stdout. Given args are the command line arguments, without
// the program name and the command name, that should be parsed using the flag
// package. In a special case of an invalid argument a message to os.Stderr and
// os.Exit(2) call are allowed.
//
// Transactions are created, signed and submitted by separate commands that can
// be combined into a pipeline:
//
//	$ payoutcli register -file users.csv -skip 1 -batch 50 \
//	    | payoutcli sign \
//	    | payoutcli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":       cmdBalance,
	"beneficiary":   cmdBeneficiary,
	"claims":        cmdClaims,
	"config":        cmdConfiguration,
	"distribute":    cmdDistribute,
	"drain":         cmdDrain,
	"fund":          cmdFund,
	"keyaddr":       cmdKeyaddr,
	"keygen":        cmdKeygen,
	"register":      cmdRegisterUsers,
	"reserve":       cmdReserve,
	"sign":          cmdSignTransaction,
	"state":         cmdState,
	"submit":        cmdSubmitTransaction,
	"update-config": cmdUpdateConfiguration,
	"users":         cmdUsers,
	"version":       cmdVersion,
	"view":          cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the payout ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, compensation.Version())
	return err
}
