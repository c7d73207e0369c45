package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/comptest"
	"github.com/iov-one/compensation/x/payout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutPipeline(t *testing.T) {
	keyPath, operator := newTestKey(t, "secret")
	conn := newAppConn(t, operator)
	conn.use(t)

	alice := comptest.NewCondition().Address()
	bob := comptest.NewCondition().Address()
	carol := comptest.NewCondition().Address()
	signArgs := []string{"-key", keyPath, "-passphrase", "secret"}

	out := pipe(t,
		step(cmdRegisterUsers, "-users", alice.String()+":100,"+bob.String()+":250", "-batch", "1"),
		step(cmdSignTransaction, signArgs...),
		step(cmdSubmitTransaction),
	)
	assert.Contains(t, out.String(), "registered\t"+alice.String()+"\t100")
	assert.Contains(t, out.String(), "registered\t"+bob.String()+"\t250")
	assert.Equal(t, 2, strings.Count(out.String(), "committed"))

	// The reserve is empty, the transaction is rejected on delivery.
	var submitOut bytes.Buffer
	signed := pipe(t,
		step(cmdDistribute, "-steps", "5"),
		step(cmdSignTransaction, signArgs...),
	)
	err := cmdSubmitTransaction(signed, &submitOut, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")

	pipe(t,
		step(cmdFund, "-src", operator.String(), "-amount", "400"),
		step(cmdSignTransaction, signArgs...),
		step(cmdSubmitTransaction),
	)

	out = pipe(t, step(cmdDrain, append(signArgs, "-steps", "1")...))
	assert.Contains(t, out.String(), "claimed\t"+alice.String()+"\t100")
	assert.Contains(t, out.String(), "claimed\t"+bob.String()+"\t250")
	assert.Contains(t, out.String(), "drained: 2 of 2 beneficiaries processed")

	// Draining a drained ledger submits nothing.
	before := len(conn.order)
	out = pipe(t, step(cmdDrain, signArgs...))
	assert.Equal(t, "drained: 2 of 2 beneficiaries processed\n", out.String())
	assert.Equal(t, before, len(conn.order))

	var state payout.State
	decodeJSON(t, pipe(t, step(cmdState)), &state)
	assert.Equal(t, payout.State{Length: 2, TotalCompensation: 350, Cursor: 2}, state)

	var users []payout.Beneficiary
	decodeJSON(t, pipe(t, step(cmdUsers)), &users)
	require.Len(t, users, 2)
	assert.Equal(t, alice, users[0].Address)
	assert.True(t, users[0].Claimed)
	assert.Equal(t, uint64(250), users[1].Amount)

	var benef payout.Beneficiary
	decodeJSON(t, pipe(t, step(cmdBeneficiary, "-addr", bob.String())), &benef)
	assert.Equal(t, payout.Beneficiary{Address: bob, Amount: 250, Claimed: true}, benef)

	decodeJSON(t, pipe(t, step(cmdBeneficiary, "-addr", carol.String())), &benef)
	assert.Equal(t, payout.Beneficiary{Address: carol}, benef)

	var balance struct {
		Address compensation.Address `json:"address"`
		Balance uint64               `json:"balance"`
	}
	decodeJSON(t, pipe(t, step(cmdReserve)), &balance)
	assert.Equal(t, payout.ReserveAddress(), balance.Address)
	assert.Equal(t, uint64(50), balance.Balance)

	decodeJSON(t, pipe(t, step(cmdBalance, "-addr", alice.String())), &balance)
	assert.Equal(t, uint64(100), balance.Balance)

	var claims []struct {
		Address compensation.Address `json:"address"`
		Amount  uint64               `json:"amount"`
	}
	decodeJSON(t, pipe(t, step(cmdClaims)), &claims)
	require.Len(t, claims, 2)
	assert.Equal(t, alice, claims[0].Address)
	assert.Equal(t, uint64(100), claims[0].Amount)
	assert.Equal(t, bob, claims[1].Address)

	var conf payout.Configuration
	decodeJSON(t, pipe(t, step(cmdConfiguration)), &conf)
	assert.Equal(t, operator, conf.Operator)
}

func TestOnlyOperatorCanRegister(t *testing.T) {
	_, operator := newTestKey(t, "secret")
	strangerKey, _ := newTestKey(t, "other")
	conn := newAppConn(t, operator)
	conn.use(t)

	signed := pipe(t,
		step(cmdRegisterUsers, "-users", comptest.NewCondition().Address().String()+":1"),
		step(cmdSignTransaction, "-key", strangerKey, "-passphrase", "other"),
	)
	err := cmdSubmitTransaction(signed, ioutil.Discard, nil)
	require.Error(t, err)

	var state payout.State
	decodeJSON(t, pipe(t, step(cmdState)), &state)
	assert.Equal(t, payout.State{}, state)
}

func TestSignSequence(t *testing.T) {
	keyPath, operator := newTestKey(t, "secret")
	conn := newAppConn(t, operator)
	conn.use(t)

	// Two transactions signed together must use consecutive sequences.
	pipe(t,
		step(cmdRegisterUsers, "-users", comptest.NewCondition().Address().String()+":1,"+comptest.NewCondition().Address().String()+":2", "-batch", "1"),
		step(cmdSignTransaction, "-key", keyPath, "-passphrase", "secret"),
		step(cmdSubmitTransaction),
	)

	// An explicit sequence that was already used is rejected.
	signed := pipe(t,
		step(cmdDistribute, "-steps", "1"),
		step(cmdSignTransaction, "-key", keyPath, "-passphrase", "secret", "-seq", "0", "-chain", testChainID),
	)
	require.Error(t, cmdSubmitTransaction(signed, ioutil.Discard, nil))

	var state payout.State
	decodeJSON(t, pipe(t, step(cmdState)), &state)
	assert.Equal(t, uint64(2), state.Length)
}

func decodeJSON(t testing.TB, b *bytes.Buffer, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(b.Bytes(), dest), b.String())
}
