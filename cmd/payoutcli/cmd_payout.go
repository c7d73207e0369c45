package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/cmd/payoutd/app"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/token"
)

func cmdRegisterUsers(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create transactions that append beneficiaries to the payout ledger.

Beneficiaries are given either with the -users flag as a comma separated list
of address:amount pairs, or as a CSV file with address and amount columns. When
neither -users nor -file is given, CSV content is read from the standard input.

With -batch set, the list is split into several transactions of at most that
many beneficiaries each.
`)
		fl.PrintDefaults()
	}
	var (
		usersFl    = fl.String("users", "", "A comma separated list of address:amount pairs.")
		fileFl     = fl.String("file", "", "Path to a CSV file with address and amount columns.")
		skipHeadFl = fl.Int("skip", 0, "Skip first N lines of the CSV file. Use this if the CSV file contains header.")
		delimFl    = fl.String("delim", ",", "CSV delimiter to be used.")
		batchFl    = fl.Int("batch", 0, "Maximum number of beneficiaries per transaction. Zero means no limit.")
	)
	fl.Parse(args)

	if len(*delimFl) != 1 {
		flagDie(`"delim" must be a single character`)
	}
	if *batchFl < 0 {
		flagDie(`"batch" cannot be negative`)
	}

	var (
		users   []compensation.Address
		amounts []uint64
		err     error
	)
	switch {
	case *usersFl != "":
		users, amounts, err = parseUserList(*usersFl)
	case *fileFl != "":
		fd, ferr := os.Open(*fileFl)
		if ferr != nil {
			return fmt.Errorf("cannot open CSV file: %s", ferr)
		}
		users, amounts, err = readUsersCSV(fd, []rune(*delimFl)[0], *skipHeadFl)
		fd.Close()
	default:
		users, amounts, err = readUsersCSV(input, []rune(*delimFl)[0], *skipHeadFl)
	}
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("no beneficiaries given")
	}

	for _, msg := range batchUsers(users, amounts, *batchFl) {
		tx, err := app.NewTx(msg)
		if err != nil {
			return err
		}
		if _, err := writeTx(output, tx); err != nil {
			return fmt.Errorf("cannot serialize transaction: %s", err)
		}
	}
	return nil
}

// parseUserList parses "addr:amount,addr:amount" notation.
func parseUserList(raw string) ([]compensation.Address, []uint64, error) {
	var (
		users   []compensation.Address
		amounts []uint64
	)
	for i, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		sep := strings.LastIndex(pair, ":")
		if sep < 0 {
			return nil, nil, fmt.Errorf("user %d: %q is not an address:amount pair", i, pair)
		}
		addr, amount, err := parseUser(pair[:sep], pair[sep+1:])
		if err != nil {
			return nil, nil, fmt.Errorf("user %d: %s", i, err)
		}
		users = append(users, addr)
		amounts = append(amounts, amount)
	}
	return users, amounts, nil
}

// readUsersCSV reads rows of address and amount columns. Additional columns
// are ignored.
func readUsersCSV(r io.Reader, delim rune, skip int) ([]compensation.Address, []uint64, error) {
	rd := csv.NewReader(r)
	rd.Comma = delim
	rd.FieldsPerRecord = -1

	for i := 0; i < skip; i++ {
		if _, err := rd.Read(); err != nil {
			if err == io.EOF {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("cannot read CSV file: %s", err)
		}
	}

	var (
		users   []compensation.Address
		amounts []uint64
	)
	for line := skip + 1; ; line++ {
		row, err := rd.Read()
		switch err {
		case nil:
			// All good.
		case io.EOF:
			return users, amounts, nil
		default:
			return nil, nil, fmt.Errorf("cannot read CSV row: %s", err)
		}
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("line %d: want address and amount columns, got %d columns", line, len(row))
		}
		addr, amount, err := parseUser(row[0], row[1])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %s", line, err)
		}
		users = append(users, addr)
		amounts = append(amounts, amount)
	}
}

func parseUser(rawAddr, rawAmount string) (compensation.Address, uint64, error) {
	addr, err := compensation.ParseAddress(strings.TrimSpace(rawAddr))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid address %q: %s", rawAddr, err)
	}
	amount, err := strconv.ParseUint(strings.TrimSpace(rawAmount), 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid amount %q: %s", rawAmount, err)
	}
	return addr, amount, nil
}

// batchUsers splits the lists into messages of at most size entries. A
// non positive size returns a single message.
func batchUsers(users []compensation.Address, amounts []uint64, size int) []*payout.RegisterUsersMsg {
	if size <= 0 || size > len(users) {
		size = len(users)
	}
	var msgs []*payout.RegisterUsersMsg
	for start := 0; start < len(users); start += size {
		end := start + size
		if end > len(users) {
			end = len(users)
		}
		msgs = append(msgs, &payout.RegisterUsersMsg{
			Users:   users[start:end],
			Amounts: amounts[start:end],
		})
	}
	return msgs
}

func cmdDistribute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that pays out at most the given number of pending
beneficiaries, starting at the ledger cursor.
`)
		fl.PrintDefaults()
	}
	var (
		stepsFl = fl.Uint64("steps", 100, "Maximum number of ledger positions to process.")
	)
	fl.Parse(args)

	tx, err := app.NewTx(&payout.DistributeMsg{MaxSteps: *stepsFl})
	if err != nil {
		return err
	}
	_, err = writeTx(output, tx)
	return err
}

func cmdFund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that transfers tokens to the payout reserve. Payments made
by distribute are taken from the reserve.
`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "Address of the funding wallet. Required.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens to transfer.")
		memoFl   = fl.String("memo", "", "Optional transfer memo.")
	)
	fl.Parse(args)

	if len(*srcFl) == 0 {
		flagDie(`"src" is required`)
	}
	if *amountFl == 0 {
		flagDie(`"amount" must be greater than zero`)
	}

	tx, err := app.NewTx(&token.SendMsg{
		Src:    *srcFl,
		Dest:   payout.ReserveAddress(),
		Amount: *amountFl,
		Memo:   *memoFl,
	})
	if err != nil {
		return err
	}
	_, err = writeTx(output, tx)
	return err
}

func cmdUpdateConfiguration(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that updates the payout configuration. Only provided
values are changed. The transaction must be signed by the current operator.
`)
		fl.PrintDefaults()
	}
	var (
		operatorFl     = flAddress(fl, "operator", "", "Address of the new operator.")
		registerCostFl = fl.Int64("register-cost", 0, "Gas allocated per registered beneficiary.")
		stepCostFl     = fl.Int64("step-cost", 0, "Gas allocated per processed ledger position.")
	)
	fl.Parse(args)

	patch := payout.Configuration{
		RegisterCost: *registerCostFl,
		StepCost:     *stepCostFl,
	}
	if len(*operatorFl) != 0 {
		patch.Operator = *operatorFl
	}
	if len(patch.Operator) == 0 && patch.RegisterCost == 0 && patch.StepCost == 0 {
		flagDie("at least one configuration value must be provided")
	}

	tx, err := app.NewTx(&payout.UpdateConfigurationMsg{Patch: &patch})
	if err != nil {
		return err
	}
	_, err = writeTx(output, tx)
	return err
}
