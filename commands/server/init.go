package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/compensation/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the tendermint genesis file within
// given home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the application state to the genesis file created by
// "tendermint init". The application passes in a function to generate
// proper options.
//
// An existing app_state is only overwritten with the -f flag.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool(flagForce, false, "overwrite an existing app_state")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	raw, err := ioutil.ReadFile(genFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", genFile)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", genFile, err)
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" && !*force {
		return errors.Wrapf(errors.ErrState, "%s already has an app_state, use -%s to overwrite", genFile, flagForce)
	}

	options, err := gen(fs.Args())
	if err != nil {
		return err
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("App state written", "path", genFile)
	return nil
}
