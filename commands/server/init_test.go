package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory holding a genesis file as created by
// "tendermint init".
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "payout-home")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	genesis := `{
  "genesis_time": "2019-05-01T00:00:00Z",
  "chain_id": "test-chain-LgVOZ0",
  "validators": [{"power": "10", "name": ""}],
  "app_hash": ""
}`
	require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(genesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func fixedOptions(args []string) (json.RawMessage, error) {
	if len(args) > 0 {
		return json.RawMessage(`{"name": "` + args[0] + `"}`), nil
	}
	return json.RawMessage(`{"name": "default"}`), nil
}

func readGenesis(t *testing.T, home string) genesisDoc {
	t.Helper()
	raw, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc genesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	logger := log.NewNopLogger()
	require.NoError(t, InitCmd(fixedOptions, logger, home, nil))

	// keep old values, and add our values
	doc := readGenesis(t, home)
	assert.Equal(t, `"test-chain-LgVOZ0"`, string(doc["chain_id"]))
	if len(doc["validators"]) == 0 {
		t.Fatal("validators lost")
	}
	var state struct{ Name string }
	require.NoError(t, json.Unmarshal(doc[appStateKey], &state))
	assert.Equal(t, "default", state.Name)

	// app_state is not overwritten by accident
	err := InitCmd(fixedOptions, logger, home, []string{"other"})
	assert.IsErr(t, errors.ErrState, err)

	require.NoError(t, InitCmd(fixedOptions, logger, home, []string{"-f", "other"}))
	doc = readGenesis(t, home)
	require.NoError(t, json.Unmarshal(doc[appStateKey], &state))
	assert.Equal(t, "other", state.Name)
}

func TestInitWithoutGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "payout-home")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	err = InitCmd(fixedOptions, log.NewNopLogger(), home, nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitGeneratorFailure(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	failing := func([]string) (json.RawMessage, error) {
		return nil, errors.Wrap(errors.ErrInput, "bad operator")
	}
	err := InitCmd(failing, log.NewNopLogger(), home, nil)
	assert.IsErr(t, errors.ErrInput, err)

	doc := readGenesis(t, home)
	assert.Equal(t, 0, len(doc[appStateKey]))
}
