package payout

import (
	"encoding/binary"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

const (
	beneficiaryBucketName = "beneficiary"
	indexBucketName       = "beneficiaryidx"
	stateBucketName       = "payoutstate"
)

var stateKey = []byte("state")

// Beneficiary is a single ledger entry. It is stored by its position in the
// ledger and only its Claimed flag ever changes, from false to true.
type Beneficiary struct {
	Address compensation.Address `json:"address"`
	Amount  uint64               `json:"amount"`
	Claimed bool                 `json:"claimed"`
}

var _ orm.Model = (*Beneficiary)(nil)

func (b *Beneficiary) Validate() error {
	return errors.AppendField(nil, "Address", b.Address.Validate())
}

// Position is the value of the address index, pointing to the ledger
// position of a beneficiary.
type Position struct {
	Index uint64 `json:"index"`
}

func (p *Position) Validate() error {
	return nil
}

// State is the ledger singleton.
type State struct {
	// Length is the number of registered beneficiaries.
	Length uint64 `json:"users_length"`
	// TotalCompensation is the sum of all registered amounts.
	TotalCompensation uint64 `json:"total_compensation"`
	// Cursor is the position of the next beneficiary to be paid.
	Cursor uint64 `json:"cursor"`
}

var _ orm.Model = (*State)(nil)

func (s *State) Validate() error {
	if s.Cursor > s.Length {
		return errors.Wrapf(errors.ErrState, "cursor %d beyond length %d", s.Cursor, s.Length)
	}
	return nil
}

// Drained returns true if every registered beneficiary was processed.
func (s *State) Drained() bool {
	return s.Cursor == s.Length
}

// PositionKey returns the ledger key of given position.
func PositionKey(pos uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, pos)
	return raw
}

// ParsePositionKey is the inverse of PositionKey.
func ParsePositionKey(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "position must be 8 bytes, got %d", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
