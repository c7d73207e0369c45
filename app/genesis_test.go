package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/compensation/comptest/assert"
	"github.com/iov-one/compensation/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "payout-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	raw := `{
		"genesis_time": "2019-05-01T00:00:00Z",
		"chain_id": "payout-test-1",
		"app_state": {"dummy": "secret"}
	}`
	require.NoError(t, ioutil.WriteFile(path, []byte(raw), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "payout-test-1", gen.ChainID)
	assert.Equal(t, `"secret"`, string(gen.AppState[dummyKey]))

	var value string
	require.NoError(t, gen.AppState.ReadOptions(dummyKey, &value))
	assert.Equal(t, "secret", value)

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.IsErr(t, errors.ErrInput, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("{"), 0600))
	_, err = LoadGenesis(path)
	assert.IsErr(t, errors.ErrInput, err)
}
