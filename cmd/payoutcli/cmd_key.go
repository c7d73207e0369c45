package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key and write it, encrypted with the passphrase, to the
key file. The recovery mnemonic is written out and must be stored safely.

With -recover the mnemonic is read from the input instead of generated.

This command fails if the key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use PAYOUTCLI_PRIV_KEY environment variable to set it.")
		passFl = fl.String("passphrase", defaultPassphrase(),
			"Key file passphrase. You can use PAYOUTCLI_PASSPHRASE environment variable to set it.")
		recoverFl = fl.Bool("recover", false, "Read the mnemonic from the input.")
	)
	fl.Parse(args)

	if *passFl == "" {
		return fmt.Errorf("passphrase is required")
	}
	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var mnemonic string
	if *recoverFl {
		line, err := bufio.NewReader(input).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("cannot read mnemonic: %s", err)
		}
		mnemonic = line
	} else {
		m, err := newMnemonic()
		if err != nil {
			return err
		}
		mnemonic = m
	}

	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	key, err := keyFromSeed(seed)
	if err != nil {
		return err
	}
	raw, err := encryptSeed(seed, *passFl)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(*keyPathFl, raw, 0600); err != nil {
		return fmt.Errorf("cannot write private key file: %s", err)
	}

	if !*recoverFl {
		fmt.Fprintln(output, mnemonic)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex and the bech32 address of your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use PAYOUTCLI_PRIV_KEY environment variable to set it.")
		passFl = fl.String("passphrase", defaultPassphrase(),
			"Key file passphrase. You can use PAYOUTCLI_PASSPHRASE environment variable to set it.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl, *passFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	bech, err := addr.Bech32()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", addr, bech)
	return err
}
