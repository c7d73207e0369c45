package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/commands/server"
	"github.com/iov-one/compensation/crypto"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

const (
	// DefaultOperatorFunds is issued to the operator wallet when no amount
	// is given to init.
	DefaultOperatorFunds = 1000000000000

	defaultRegisterCost = 100
	defaultStepCost     = 500
)

type genesisState struct {
	Token []token.GenesisAccount `json:"token"`
	Conf  struct {
		Payout payout.Configuration `json:"payout"`
	} `json:"conf"`
}

// GenInitOptions produces the app_state of a new chain. Arguments are
//
//	[operator address] [operator funds] [reserve funds]
//
// When no operator is given, a new key is generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var operator compensation.Address
	if len(args) > 0 {
		addr, err := compensation.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "operator")
		}
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrap(err, "operator")
		}
		operator = addr
	} else {
		key := crypto.GenPrivateKey()
		operator = key.PublicKey().Address()
		fmt.Printf("operator %s\nsecret   %s\n", operator, hex.EncodeToString(key))
	}

	funds := uint64(DefaultOperatorFunds)
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "operator funds: %s", err)
		}
		funds = n
	}
	var reserve uint64
	if len(args) > 2 {
		n, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "reserve funds: %s", err)
		}
		reserve = n
	}

	var state genesisState
	state.Token = []token.GenesisAccount{
		{Address: operator, Amount: funds},
	}
	if reserve > 0 {
		state.Token = append(state.Token, token.GenesisAccount{Address: payout.ReserveAddress(), Amount: reserve})
	}
	state.Conf.Payout = payout.Configuration{
		Operator:     operator,
		RegisterCost: defaultRegisterCost,
		StepCost:     defaultStepCost,
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	kv, err := CommitKVStore(options.Home, options.Store)
	if err != nil {
		return nil, err
	}
	application := Application(Name, Stack(), TxDecoder, kv, options.Debug)
	application.WithInit(Initializers())
	application.WithLogger(options.Logger)
	return application, nil
}
