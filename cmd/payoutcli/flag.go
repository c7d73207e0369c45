package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/compensation"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *compensation.Address {
	var a addressFlag
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			flagDie("Cannot parse %q address flag value. %s", name, err)
		}
	}
	fl.Var(&a, name, usage)
	return (*compensation.Address)(&a)
}

type addressFlag compensation.Address

func (a addressFlag) String() string {
	if len(a) == 0 {
		return ""
	}
	return compensation.Address(a).String()
}

// Set accepts all forms supported by compensation.ParseAddress.
func (a *addressFlag) Set(raw string) error {
	addr, err := compensation.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = addressFlag(addr)
	return nil
}

// flagDie terminates the program when a flag is not valid.
func flagDie(description string, args ...interface{}) {
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	fmt.Fprintln(os.Stderr, description)
	os.Exit(2)
}
