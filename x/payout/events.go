package payout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// RegisteredTag is the deliver tag key of a registration.
	RegisteredTag = "payout.registered"
	// ClaimedTag is the deliver tag key of a payment.
	ClaimedTag = "payout.claimed"
)

// Registered is emitted once for every added beneficiary.
type Registered struct {
	Address compensation.Address
	Amount  uint64
}

// Tag returns the deliver tag representing this event.
func (e Registered) Tag() common.KVPair {
	return eventTag(RegisteredTag, e.Address, e.Amount)
}

// Claimed is emitted once for every paid beneficiary.
type Claimed struct {
	Address compensation.Address
	Amount  uint64
}

// Tag returns the deliver tag representing this event.
func (e Claimed) Tag() common.KVPair {
	return eventTag(ClaimedTag, e.Address, e.Amount)
}

func eventTag(key string, addr compensation.Address, amount uint64) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(fmt.Sprintf("%s:%d", addr, amount)),
	}
}

// ParseTagValue decodes the address and amount of an event tag value.
func ParseTagValue(value []byte) (compensation.Address, uint64, error) {
	chunks := strings.SplitN(string(value), ":", 2)
	if len(chunks) != 2 {
		return nil, 0, errors.Wrapf(errors.ErrInput, "invalid tag value %q", value)
	}
	addr, err := compensation.ParseAddress(chunks[0])
	if err == nil {
		err = addr.Validate()
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "address")
	}
	amount, err := strconv.ParseUint(chunks[1], 10, 64)
	if err != nil {
		return nil, 0, errors.Wrapf(errors.ErrInput, "amount: %s", err)
	}
	return addr, amount, nil
}
